// Package responseformat writes handler results as JSON or MessagePack.
package responseformat

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/vmihailenco/msgpack/v5"
)

const MIMEMsgPack = "application/x-msgpack"

// WantsMsgPack reports whether the client asked for MessagePack, either with
// format=msgpack or through the Accept header.
func WantsMsgPack(r *http.Request) bool {
	if r.URL.Query().Get("format") == "msgpack" {
		return true
	}
	return strings.Contains(r.Header.Get(echo.HeaderAccept), MIMEMsgPack)
}

// Write encodes data in the format the client asked for. JSON is the default.
func Write(c echo.Context, status int, data any) error {
	if WantsMsgPack(c.Request()) {
		return writeMsgPack(c, status, data)
	}
	return c.JSON(status, data)
}

func writeMsgPack(c echo.Context, status int, data any) error {
	resp := c.Response()
	resp.Header().Set(echo.HeaderContentType, MIMEMsgPack)
	resp.WriteHeader(status)

	enc := msgpack.NewEncoder(resp)
	// Use json tags so both encodings share field names.
	enc.SetCustomStructTag("json")
	return enc.Encode(data)
}
