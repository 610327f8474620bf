package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

func handleEvents(broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)

		flusher, ok := w.(http.Flusher)
		if !ok {
			writeError(w, http.StatusInternalServerError, "streaming not supported")
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")

		ch := broker.Subscribe(sess.id)
		defer broker.Unsubscribe(sess.id, ch)

		// Current state first, so the client never waits for a change.
		initial, _ := json.Marshal(sess.view())
		fmt.Fprintf(w, "event: state\ndata: %s\n\n", initial)
		flusher.Flush()

		ping := time.NewTicker(30 * time.Second)
		defer ping.Stop()

		for {
			select {
			case <-r.Context().Done():
				return
			case data, ok := <-ch:
				if !ok {
					fmt.Fprintf(w, "event: end\ndata: {}\n\n")
					flusher.Flush()
					return
				}
				fmt.Fprintf(w, "event: state\ndata: %s\n\n", data)
				flusher.Flush()
			case <-ping.C:
				fmt.Fprintf(w, ": ping\n\n")
				flusher.Flush()
			}
		}
	}
}
