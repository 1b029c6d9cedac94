package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
)

// jsonOK returns an EndpointResult containing an HTTP-200 along with a more
// detailed message (if desired; if none is provided it defaults to a generic
// one) that is not displayed to the caller.
func jsonOK(respObj interface{}, internalMsg ...interface{}) EndpointResult {
	internalMsgFmt := "OK"
	var msgArgs []interface{}
	if len(internalMsg) >= 1 {
		internalMsgFmt = internalMsg[0].(string)
		msgArgs = internalMsg[1:]
	}

	return jsonResponse(http.StatusOK, respObj, internalMsgFmt, msgArgs...)
}

// jsonCreated returns an EndpointResult containing an HTTP-201.
func jsonCreated(respObj interface{}, internalMsg ...interface{}) EndpointResult {
	internalMsgFmt := "created"
	var msgArgs []interface{}
	if len(internalMsg) >= 1 {
		internalMsgFmt = internalMsg[0].(string)
		msgArgs = internalMsg[1:]
	}

	return jsonResponse(http.StatusCreated, respObj, internalMsgFmt, msgArgs...)
}

// jsonBadRequest returns an EndpointResult containing an HTTP-400.
func jsonBadRequest(userMsg string, internalMsg ...interface{}) EndpointResult {
	internalMsgFmt := "bad request"
	var msgArgs []interface{}
	if len(internalMsg) >= 1 {
		internalMsgFmt = internalMsg[0].(string)
		msgArgs = internalMsg[1:]
	}

	return jsonErr(http.StatusBadRequest, userMsg, internalMsgFmt, msgArgs...)
}

// jsonNotFound returns an EndpointResult containing an HTTP-404.
func jsonNotFound(internalMsg ...interface{}) EndpointResult {
	internalMsgFmt := "not found"
	var msgArgs []interface{}
	if len(internalMsg) >= 1 {
		internalMsgFmt = internalMsg[0].(string)
		msgArgs = internalMsg[1:]
	}

	return jsonErr(http.StatusNotFound, "The requested resource was not found", internalMsgFmt, msgArgs...)
}

// jsonUnauthorized returns an EndpointResult containing an HTTP-401 response
// along with the proper WWW-Authenticate header.
func jsonUnauthorized(userMsg string, internalMsg ...interface{}) EndpointResult {
	internalMsgFmt := "unauthorized"
	var msgArgs []interface{}
	if len(internalMsg) >= 1 {
		internalMsgFmt = internalMsg[0].(string)
		msgArgs = internalMsg[1:]
	}

	if userMsg == "" {
		userMsg = "You are not authorized to do that"
	}

	return jsonErr(http.StatusUnauthorized, userMsg, internalMsgFmt, msgArgs...).
		withHeader("WWW-Authenticate", `Bearer realm="gudgeon server", charset="utf-8"`)
}

// jsonInternalServerError returns an EndpointResult containing an HTTP-500.
func jsonInternalServerError(internalMsg ...interface{}) EndpointResult {
	internalMsgFmt := "internal server error"
	var msgArgs []interface{}
	if len(internalMsg) >= 1 {
		internalMsgFmt = internalMsg[0].(string)
		msgArgs = internalMsg[1:]
	}

	return jsonErr(http.StatusInternalServerError, "An internal server error occurred", internalMsgFmt, msgArgs...)
}

// jsonResponse builds a successful EndpointResult. If status is
// http.StatusNoContent, respObj will not be read and may be nil.
func jsonResponse(status int, respObj interface{}, internalMsg string, v ...interface{}) EndpointResult {
	return EndpointResult{
		isJSON:      true,
		status:      status,
		internalMsg: fmt.Sprintf(internalMsg, v...),
		resp:        respObj,
	}
}

// jsonErr builds an error EndpointResult whose body is an ErrorResponse.
func jsonErr(status int, userMsg, internalMsg string, v ...interface{}) EndpointResult {
	return EndpointResult{
		isJSON:      true,
		isErr:       true,
		status:      status,
		internalMsg: fmt.Sprintf(internalMsg, v...),
		resp: ErrorResponse{
			Error:  userMsg,
			Status: status,
		},
	}
}

// ErrorResponse is the JSON body of any non-2xx response.
type ErrorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

// EndpointResult is the return value of every handler: enough information to
// write an HTTP response and log it, decoupled from writing so handlers stay
// easy to unit test.
type EndpointResult struct {
	isErr       bool
	isJSON      bool
	status      int
	internalMsg string
	resp        interface{}
	hdrs        [][2]string
}

func (r EndpointResult) withHeader(name, val string) EndpointResult {
	cp := r
	cp.hdrs = append(append([][2]string(nil), r.hdrs...), [2]string{name, val})
	return cp
}

func (r EndpointResult) writeResponse(w http.ResponseWriter, req *http.Request) {
	if r.status == 0 {
		logHTTPResponse("ERROR", req, http.StatusInternalServerError, "endpoint result was never populated")
		http.Error(w, "An internal server error occurred", http.StatusInternalServerError)
		return
	}

	var respBytes []byte
	if r.isJSON && r.status != http.StatusNoContent {
		b, err := json.Marshal(r.resp)
		if err != nil {
			res := jsonErr(http.StatusInternalServerError, "An internal server error occurred", "could not marshal JSON response: %s", err.Error())
			res.writeResponse(w, req)
			return
		}
		respBytes = b
	}

	level := "INFO"
	if r.isErr {
		level = "ERROR"
	}
	logHTTPResponse(level, req, r.status, r.internalMsg)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	for _, h := range r.hdrs {
		w.Header().Set(h[0], h[1])
	}

	w.WriteHeader(r.status)
	if r.status != http.StatusNoContent {
		w.Write(respBytes)
	}
}

func logHTTPResponse(level string, req *http.Request, status int, msg string) {
	if len(level) > 5 {
		level = level[0:5]
	}
	for len(level) < 5 {
		level += " "
	}

	remoteIP := strings.SplitN(req.RemoteAddr, ":", 2)[0]
	log.Printf("%s %s %s %s: HTTP-%d %s", level, remoteIP, req.Method, req.URL.Path, status, msg)
}
