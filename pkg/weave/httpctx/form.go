package httpctx

import "net/url"

// parseFormURLEncoded decodes an application/x-www-form-urlencoded body
// into a flat string map, taking the first value for any repeated key.
func parseFormURLEncoded(body string) (map[string]string, error) {
	values, err := url.ParseQuery(body)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(values))
	for k, vs := range values {
		if len(vs) > 0 {
			out[k] = vs[0]
		}
	}
	return out, nil
}
