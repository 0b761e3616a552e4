// Copyright (c) 2024 Neomantra Corp

package session

import "bytes"

// parseControlLine splits a "k1=v1|k2=v2|...\n" control message into a
// key/value map. The trailing newline, if present, is ignored.
func parseControlLine(b []byte) map[string]string {
	b = bytes.TrimRight(b, "\n")
	m := make(map[string]string)
	for _, kv := range bytes.Split(b, []byte{'|'}) {
		equals := bytes.IndexByte(kv, '=')
		if equals == -1 {
			continue
		}
		k := string(kv[:equals])
		v := string(kv[equals+1:])
		m[k] = v
	}
	return m
}

// getField returns the value of key in msg's "|"-separated "k=v" fields,
// and whether it was present. A value stops at the first subsequent "|",
// so a cram token embedding "|" is truncated at that boundary by design.
func getField(msg map[string]string, key string) (string, bool) {
	v, ok := msg[key]
	return v, ok
}

type greetingMsg struct {
	LsgVersion string // key: lsg_version
}

func parseGreeting(line []byte) (greetingMsg, bool) {
	m := parseControlLine(line)
	version, ok := getField(m, "lsg_version")
	if !ok {
		return greetingMsg{}, false
	}
	return greetingMsg{LsgVersion: version}, true
}

type challengeMsg struct {
	Cram string // key: cram
}

func parseChallenge(line []byte) (challengeMsg, bool) {
	m := parseControlLine(line)
	cram, ok := getField(m, "cram")
	if !ok {
		return challengeMsg{}, false
	}
	return challengeMsg{Cram: cram}, true
}

type authResponseMsg struct {
	Success   string // key: success
	Error     string // key: error
	SessionID string // key: session_id
}

func parseAuthResponse(line []byte) (authResponseMsg, bool) {
	m := parseControlLine(line)
	success, ok := getField(m, "success")
	if !ok {
		return authResponseMsg{}, false
	}
	sessionID, _ := getField(m, "session_id")
	errMsg, _ := getField(m, "error")
	return authResponseMsg{Success: success, Error: errMsg, SessionID: sessionID}, true
}
