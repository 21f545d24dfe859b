// Package logformat compiles Apache LogFormat directive strings into
// per-line matchers and parses access log lines into named fields.
package logformat

import (
	"regexp"
	"strings"
)

// directiveNames maps log-format directive tokens to canonical field
// names, following mod_log_config. Directives that take a bracketed
// modifier (%{Foobar}i and friends) are keyed by their generic form.
var directiveNames = map[string]string{
	"%a": "remote_ip",
	"%A": "local_ip",
	// Size of response in bytes, excluding HTTP headers.
	"%B": "response_bytes",
	// Same, but CLF style: "-" instead of 0 when no bytes are sent.
	"%b":   "response_bytes_clf",
	"%{}C": "cookie",
	// Time taken to serve the request, in microseconds.
	"%D":   "response_time_us",
	"%{}e": "env",
	"%f":   "filename",
	"%h":   "remote_host",
	"%H":   "request_protocol",
	"%{}i": "header",
	"%k":   "keepalive_num",
	// Remote logname from identd; a dash unless mod_ident is active.
	"%l":   "remote_logname",
	"%m":   "request_method",
	"%{}n": "note",
	"%{}o": "reply_header",
	"%p":   "server_port",
	"%{}p": "port",
	"%P":   "process_id",
	"%{}P": "pid",
	"%q":   "query_string",
	// First line of the request, e.g. "GET / HTTP/1.1".
	"%r": "first_line",
	"%R": "response_handler",
	// Status of the original request; %>s for the final one after
	// internal redirects.
	"%s":   "status",
	"%>s":  "last_status",
	"%t":   "time",
	"%{}t": "time",
	"%T":   "response_time_sec",
	// Remote user from auth; may be bogus if the status is 401.
	"%u": "remote_user",
	"%U": "url_path",
	"%v": "canonical_server_name",
	"%V": "server_name_config",
	// Connection status when the response completed: X aborted,
	// + keep-alive, - closed.
	"%X": "completed_connection_status",
	// mod_logio byte counts, including headers.
	"%I": "bytes_received",
	"%O": "bytes_sent",
}

var nonIdent = regexp.MustCompile(`[^A-Za-z0-9]`)

// FieldName returns the canonical name for a log-format directive
// token. Bracketed directives are looked up under their generic key,
// with the modifier appended as a suffix: %{Referer}i becomes
// header_Referer. Modifier characters that would not be valid in an
// identifier are replaced with underscores, except for %{fmt}t whose
// modifier is a strftime pattern and is kept verbatim. Unknown tokens
// are returned unchanged so unrecognized directives still parse.
func FieldName(token string) string {
	key, suffix := token, ""
	if strings.HasPrefix(token, "%{") && len(token) >= 4 {
		mod := token[2 : len(token)-2]
		key = "%{}" + token[len(token)-1:]
		if key == "%{}t" {
			suffix = "_" + mod
		} else {
			suffix = "_" + nonIdent.ReplaceAllString(mod, "_")
		}
	}
	name, ok := directiveNames[key]
	if !ok {
		return token
	}
	return name + suffix
}
