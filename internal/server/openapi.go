package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/storefront/quizwidget/internal/answer"
	"github.com/storefront/quizwidget/internal/gateway"
	"github.com/storefront/quizwidget/internal/handler/health"
	"github.com/storefront/quizwidget/internal/verify"
)

// ErrorResponse is returned for all error responses outside the gateway.
type ErrorResponse struct {
	Error string `json:"error"`
}

// submitQuizRequest documents the token header; the body is a JSON array
// of quiz.PayloadItem.
type submitQuizRequest struct {
	Token string `header:"captchaToken" required:"true"`
}

// Path parameters have to be declared for the reflector to keep an
// operation.
type idPath struct {
	ID string `path:"id"`
}

type sessionInputRequest struct {
	ID string `path:"id"`
	answer.Input
}

type sessionResizeRequest struct {
	ID string `path:"id"`
	ResizeRequest
}

type operation struct {
	method      string
	path        string
	summary     string
	description string
	req         any
	resp        []response
}

type response struct {
	body        any
	status      int
	contentType string
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Quiz Widget API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Submission gateway, hosted quiz sessions and admin endpoints.")

	ops := []operation{
		{http.MethodGet, "/healthz", "Health check", "Returns the health status of backend dependencies.", nil, []response{
			{body: health.Response{}, status: http.StatusOK},
			{body: health.Response{}, status: http.StatusServiceUnavailable},
		}},
		{http.MethodPost, "/api/v1/challenge", "Issue challenge token", "Mints a single-use verification token for one submission.", nil, []response{
			{body: verify.ChallengeResponse{}, status: http.StatusOK},
		}},
		{http.MethodPost, "/api/v1/submitquiz", "Submit quiz", "Stores an ordered list of label/answer pairs. The captchaToken header must carry a valid token.", submitQuizRequest{}, []response{
			{body: gateway.Reply{}, status: http.StatusOK},
			{body: gateway.Reply{}, status: http.StatusBadRequest},
			{body: gateway.Reply{}, status: http.StatusForbidden},
		}},
		{http.MethodPost, "/api/sessions", "Open session", "Starts a hosted quiz session on its first question.", nil, []response{
			{body: SessionView{}, status: http.StatusCreated},
		}},
		{http.MethodGet, "/api/sessions/{id}", "Get session", "Returns the current view of a session.", idPath{}, []response{
			{body: SessionView{}, status: http.StatusOK},
			{body: ErrorResponse{}, status: http.StatusNotFound},
		}},
		{http.MethodPost, "/api/sessions/{id}/input", "Edit answer", "Applies one input to the active question. Ignored while a transition or submission is running.", sessionInputRequest{}, []response{
			{body: SessionView{}, status: http.StatusOK},
			{body: ErrorResponse{}, status: http.StatusUnprocessableEntity},
			{body: ErrorResponse{}, status: http.StatusNotFound},
		}},
		{http.MethodPost, "/api/sessions/{id}/continue", "Continue", "Advances when the active question is valid; submits on the last question.", idPath{}, []response{
			{body: SessionView{}, status: http.StatusOK},
			{body: ErrorResponse{}, status: http.StatusNotFound},
		}},
		{http.MethodPost, "/api/sessions/{id}/back", "Back", "Returns to the previous question, or closes the quiz on the first one.", idPath{}, []response{
			{body: SessionView{}, status: http.StatusOK},
			{body: ErrorResponse{}, status: http.StatusNotFound},
		}},
		{http.MethodPost, "/api/sessions/{id}/resize", "Report header height", "Records the host page's fixed header height.", sessionResizeRequest{}, []response{
			{body: SessionView{}, status: http.StatusOK},
			{body: ErrorResponse{}, status: http.StatusBadRequest},
			{body: ErrorResponse{}, status: http.StatusGone},
		}},
		{http.MethodDelete, "/api/sessions/{id}", "Close session", "Closes the quiz and drops the session.", idPath{}, []response{
			{status: http.StatusNoContent},
			{body: SessionView{}, status: http.StatusConflict},
			{body: ErrorResponse{}, status: http.StatusNotFound},
		}},
		{http.MethodGet, "/api/sessions/{id}/events", "Session event stream", "Server-Sent Events stream of session views.", idPath{}, []response{
			{status: http.StatusOK, contentType: "text/event-stream"},
		}},
		{http.MethodPost, "/api/admin/login", "Admin login", "Authenticate with email and password. Sets admin_session cookie.", AdminLoginRequest{}, []response{
			{body: AdminMeResponse{}, status: http.StatusOK},
			{body: ErrorResponse{}, status: http.StatusUnauthorized},
		}},
		{http.MethodPost, "/api/admin/logout", "Admin logout", "Clears admin session and cookie.", nil, []response{
			{status: http.StatusNoContent},
		}},
		{http.MethodGet, "/api/admin/me", "Current admin", "Returns the currently authenticated admin. Requires admin_session cookie.", nil, []response{
			{body: AdminMeResponse{}, status: http.StatusOK},
			{body: ErrorResponse{}, status: http.StatusUnauthorized},
		}},
		{http.MethodGet, "/api/admin/submissions", "List submissions", "Returns the newest submissions first. Requires admin_session cookie.", nil, []response{
			{body: []SubmissionSummary{}, status: http.StatusOK},
			{body: ErrorResponse{}, status: http.StatusUnauthorized},
		}},
		{http.MethodGet, "/api/admin/submissions/{id}", "Get submission", "Returns one stored submission. Requires admin_session cookie.", idPath{}, []response{
			{body: Submission{}, status: http.StatusOK},
			{body: ErrorResponse{}, status: http.StatusNotFound},
			{body: ErrorResponse{}, status: http.StatusUnauthorized},
		}},
	}

	for _, op := range ops {
		oc, err := r.NewOperationContext(op.method, op.path)
		if err != nil {
			continue
		}
		oc.SetSummary(op.summary)
		oc.SetDescription(op.description)
		if op.req != nil {
			oc.AddReqStructure(op.req)
		}
		for _, resp := range op.resp {
			opts := []openapi.ContentOption{openapi.WithHTTPStatus(resp.status)}
			if resp.contentType != "" {
				opts = append(opts, openapi.WithContentType(resp.contentType))
			}
			oc.AddRespStructure(resp.body, opts...)
		}
		_ = r.AddOperation(oc)
	}

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
