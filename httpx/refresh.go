package httpx

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/oauth"
)

// RefreshToken runs a refresh_token grant against the bearer server and
// returns the buffered token response.
// oauth.BearerServer only exposes its grants as handlers, hence the
// synthetic form request.
func RefreshToken(bearerServer *oauth.BearerServer, refreshToken string) (ResponseBuffer, error) {
	body := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {refreshToken},
	}.Encode()

	req, err := http.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("content-type", "application/x-www-form-urlencoded")
	req.Header.Set("content-length", strconv.Itoa(len(body)))

	resp := NewResponseBuffer()
	bearerServer.UserCredentials(resp, req)
	return resp, nil
}
