// Package qrz is a client for the QRZ.com XML callsign database API.
//
// See https://www.qrz.com/XML/current_spec.html. Lookups require a QRZ.com account; a subscription unlocks the
// full set of profile fields.
package qrz

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultEndpoint is the current QRZ XML API endpoint.
	DefaultEndpoint = "https://xmldata.qrz.com/xml/current/"
	// agent identifies this client to QRZ in session requests.
	agent = "qrz_zip_lookup_v1.0"
)

// Options customises Login.
type Options struct {
	// Endpoint of the XML API. Defaults to DefaultEndpoint.
	Endpoint string
	// HTTPClient is used for all requests. Defaults to a client with a 30-second timeout.
	HTTPClient *http.Client
}

// Client is an authenticated QRZ XML API session.
type Client struct {
	endpoint   string
	httpClient *http.Client
	sessionKey string
}

// qrzResponse models the QRZDatabase document wrapping every API response.
type qrzResponse struct {
	XMLName xml.Name `xml:"QRZDatabase"`
	Session struct {
		Key   string `xml:"Key"`
		Error string `xml:"Error"`
	} `xml:"Session"`
	Callsign *Callsign `xml:"Callsign"`
}

// Login authenticates with the QRZ XML API and returns a Client holding the session key.
func Login(ctx context.Context, username, password string, optFns ...func(*Options)) (*Client, error) {
	opts := &Options{
		Endpoint:   DefaultEndpoint,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, fn := range optFns {
		fn(opts)
	}

	c := &Client{endpoint: opts.Endpoint, httpClient: opts.HTTPClient}

	r, err := c.get(ctx, fmt.Sprintf("username=%s;password=%s;agent=%s", url.QueryEscape(username), url.QueryEscape(password), agent))
	if err != nil {
		return nil, err
	}

	if key := strings.TrimSpace(r.Session.Key); key != "" {
		c.sessionKey = key
		return c, nil
	}

	if msg := strings.TrimSpace(r.Session.Error); msg != "" {
		return nil, fmt.Errorf("QRZ authentication failed: %s", msg)
	}

	return nil, fmt.Errorf("QRZ authentication failed: no session key in response")
}

// Lookup fetches the profile record for the given callsign.
//
// A *LookupError is returned if QRZ reports the callsign as not found or the session as invalid.
func (c *Client) Lookup(ctx context.Context, callsign string) (*Callsign, error) {
	r, err := c.get(ctx, fmt.Sprintf("s=%s;callsign=%s", url.QueryEscape(c.sessionKey), url.QueryEscape(callsign)))
	if err != nil {
		return nil, err
	}

	if msg := strings.TrimSpace(r.Session.Error); msg != "" {
		return nil, &LookupError{Callsign: callsign, Message: msg}
	}
	if r.Callsign == nil {
		return nil, &LookupError{Callsign: callsign, Message: "no callsign record in response"}
	}

	return r.Callsign, nil
}

func (c *Client) get(ctx context.Context, query string) (*qrzResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+query, nil)
	if err != nil {
		return nil, fmt.Errorf("create request error: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s error: %w", c.endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: unexpected status %s", c.endpoint, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response error: %w", err)
	}

	r := &qrzResponse{}
	if err = xml.Unmarshal(body, r); err != nil {
		return nil, fmt.Errorf("unmarshal response error: %w", err)
	}

	return r, nil
}

// LookupError is returned by Client.Lookup when QRZ reports an error for the requested callsign.
type LookupError struct {
	Callsign string
	Message  string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("lookup %s: %s", e.Callsign, e.Message)
}
