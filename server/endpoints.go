package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"runtime/debug"

	"github.com/dekarrin/gudgeon"
	"github.com/dekarrin/gudgeon/rulefile"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// EndpointFunc is the signature every handler in this package implements:
// read the request, do the work, and describe the response to send, without
// touching the ResponseWriter directly.
type EndpointFunc func(req *http.Request) EndpointResult

// Endpoint adapts an EndpointFunc into an http.HandlerFunc, converting
// panics to HTTP-500 and writing the returned EndpointResult.
func Endpoint(ep EndpointFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		defer panicTo500(w, req)
		result := ep(req)
		result.writeResponse(w, req)
	}
}

func panicTo500(w http.ResponseWriter, req *http.Request) {
	if panicErr := recover(); panicErr != nil {
		res := jsonInternalServerError("panic: %v\n%s", panicErr, string(debug.Stack()))
		res.writeResponse(w, req)
	}
}

// RuleFileRequest is the body of POST /rulesets: a rule document along with
// the filename extension ("toml" or "yaml"/"yml") that says how to parse it,
// since there is no file on disk for rulefile.Load to infer one from.
type RuleFileRequest struct {
	Format string `json:"format"`
	Source string `json:"source"`
}

// RuleSetResponse is the body returned by a successful POST /rulesets.
type RuleSetResponse struct {
	ID        string `json:"id"`
	RuleCount int    `json:"rule_count"`
}

// Span is one (start, end, action) triple produced by tokenizing a request
// body, in the wire shape returned by POST /rulesets/{id}/tokenize.
type Span struct {
	Start  int    `json:"start"`
	End    int    `json:"end"`
	Action string `json:"action"`
}

func (s *Server) epCreateRuleSet(req *http.Request) EndpointResult {
	var body RuleFileRequest
	if err := parseJSON(req, &body); err != nil {
		return jsonBadRequest(err.Error(), err.Error())
	}

	ext := "." + body.Format
	doc, err := rulefile.Load("ruleset"+ext, []byte(body.Source))
	if err != nil {
		return jsonBadRequest("rule document is invalid: "+err.Error(), err.Error())
	}

	id, set, err := s.store(doc)
	if err != nil {
		switch err.(type) {
		case *gudgeon.AmbiguityError, *gudgeon.NullableRuleError:
			return jsonBadRequest(err.Error(), err.Error())
		default:
			return jsonInternalServerError(err.Error())
		}
	}

	resp := RuleSetResponse{ID: id.String(), RuleCount: len(set.rs.Rules)}
	return jsonCreated(resp, "compiled rule set %s with %d rule(s)", id, len(set.rs.Rules))
}

func (s *Server) epTokenize(req *http.Request) EndpointResult {
	idStr := chi.URLParam(req, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		return jsonNotFound("malformed ruleset id %q", idStr)
	}

	set, ok := s.lookup(id)
	if !ok {
		return jsonNotFound("ruleset %s not found", id)
	}

	body, err := io.ReadAll(req.Body)
	if err != nil {
		return jsonBadRequest("could not read request body", "reading body: %s", err.Error())
	}

	lex := gudgeon.NewLexer(set.ops, string(body), set.errorAction)
	spans := lex.All()

	resp := make([]Span, len(spans))
	for i, sp := range spans {
		resp[i] = Span{Start: sp.Start, End: sp.End, Action: sp.Value}
	}

	return jsonOK(resp, "tokenized %d byte(s) of input against ruleset %s into %d span(s)", len(body), id, len(resp))
}

// parseJSON decodes a JSON request body into v, which must be a pointer.
func parseJSON(req *http.Request, v interface{}) error {
	defer req.Body.Close()

	bodyData, err := io.ReadAll(req.Body)
	if err != nil {
		return fmt.Errorf("could not read request body: %w", err)
	}

	if err := json.Unmarshal(bodyData, v); err != nil {
		return fmt.Errorf("malformed JSON in request: %w", err)
	}

	return nil
}
