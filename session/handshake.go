// Copyright (c) 2024 Neomantra Corp

package session

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"net"

	"github.com/quantfeed/lsg-go"

	"github.com/dustin/go-humanize"
	"github.com/quantfeed/lsg-go/internal/sockopt"
)

// Connect opens a TCP connection to the gateway, negotiates SO_RCVBUF, and
// performs the CRAM handshake described in §4.2.1. On success the session
// moves to stateAuthenticated.
func (s *Session) Connect() error {
	if s.currentState() != stateFresh {
		return s.reportError(lsg.TransportError, "Connect", errors.New("session already connected"))
	}

	hostPort := fmt.Sprintf("%s:%d", s.gateway, s.port)
	conn, err := net.Dial("tcp", hostPort)
	if err != nil {
		return s.reportError(lsg.TransportError, "Connect", err)
	}
	s.conn = conn

	if granted, err := sockopt.RequestRcvBuf(conn, s.config.RcvBufBytes); err != nil {
		s.conn.Close()
		s.conn = nil
		return s.reportError(lsg.TransportError, "Connect", err)
	} else if s.config.Verbose {
		s.logger.Info("[session.Connect] negotiated receive buffer",
			"bytes", humanize.Bytes(uint64(granted)))
	}

	s.bufReader = newLineReader(conn)
	s.setState(stateConnected)
	if s.config.Verbose {
		s.logger.Info("[session.Connect] connected", "dataset", s.config.Dataset, "hostport", hostPort)
	}

	sessionID, err := s.authenticate()
	if err != nil {
		return err // already reported by authenticate
	}
	s.sessionID = sessionID
	s.setState(stateAuthenticated)
	return nil
}

// authenticate reads the greeting/challenge lines, sends the auth request,
// and reads the success/failure response.
func (s *Session) authenticate() (string, error) {
	cram, err := s.readChallenge()
	if err != nil {
		return "", err
	}

	auth := generateCramReply(s.config.ApiKey, cram)
	tsOutStr := "0"
	if s.config.SendTsOut {
		tsOutStr = "1"
	}
	line := fmt.Appendf(nil, "auth=%s|dataset=%s|encoding=dbn|ts_out=%s\n",
		auth, s.config.Dataset, tsOutStr)

	if _, err := s.conn.Write(line); err != nil {
		return "", s.reportError(lsg.TransportError, "authenticate", err)
	}

	respLine, err := s.bufReader.ReadBytes('\n')
	if err != nil {
		return "", s.reportError(lsg.AuthDenied, "authenticate", err)
	}
	resp, ok := parseAuthResponse(respLine)
	if !ok {
		return "", s.reportError(lsg.AuthDenied, "authenticate", errors.New("missing success field"))
	}
	if resp.Success != "1" {
		return "", s.reportError(lsg.AuthDenied, "authenticate", fmt.Errorf("authentication denied: %s", resp.Error))
	}
	if s.config.Verbose {
		s.logger.Info("[session.authenticate] authenticated", "session_id", resp.SessionID)
	}
	s.tsOutEnabled = s.config.SendTsOut
	return resp.SessionID, nil
}

func (s *Session) readChallenge() (string, error) {
	greetingLine, err := s.bufReader.ReadBytes('\n')
	if err != nil {
		return "", s.reportError(lsg.AuthDenied, "readChallenge", fmt.Errorf("failed to read greeting: %w", err))
	}
	greeting, ok := parseGreeting(greetingLine)
	if !ok {
		return "", s.reportError(lsg.AuthDenied, "readChallenge", errors.New("missing lsg_version field"))
	}
	s.lsgVersion = greeting.LsgVersion

	challengeLine, err := s.bufReader.ReadBytes('\n')
	if err != nil {
		return "", s.reportError(lsg.AuthDenied, "readChallenge", fmt.Errorf("failed to read challenge: %w", err))
	}
	challenge, ok := parseChallenge(challengeLine)
	if !ok {
		return "", s.reportError(lsg.AuthDenied, "readChallenge", errors.New("missing cram field"))
	}
	return challenge.Cram, nil
}

// generateCramReply computes the lowercase hex SHA-256 of "cram|api_key",
// suffixed with "-" and the API key's bucket identifier (its last
// BucketIDLength characters).
func generateCramReply(apiKey string, cram string) string {
	request := fmt.Sprintf("%s|%s", cram, apiKey)

	hasher := sha256.New()
	hasher.Write([]byte(request))
	checksum := hasher.Sum(nil)

	bucketID := apiKey[len(apiKey)-BucketIDLength:]
	return fmt.Sprintf("%x-%s", checksum, bucketID)
}
