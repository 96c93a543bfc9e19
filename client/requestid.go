package client

import (
	"math/rand"
	"strconv"
	"strings"
	"time"
)

// HeaderRequestID is attached to every outgoing request so server logs can
// be correlated with client-side failures.
const HeaderRequestID = "X-Request-ID"

const requestIDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// newRequestID returns an id of the form req_<unix-millis base36>_<9 random
// base36 chars>.
func newRequestID() string {
	var b strings.Builder
	b.WriteString("req_")
	b.WriteString(strconv.FormatInt(time.Now().UnixMilli(), 36))
	b.WriteByte('_')
	for i := 0; i < 9; i++ {
		b.WriteByte(requestIDAlphabet[rand.Intn(len(requestIDAlphabet))])
	}
	return b.String()
}
