// Copyright (c) 2024 Neomantra Corp

package session

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/quantfeed/lsg-go"
)

const maxSymbolsPerGroup = 1000

// Start subscribes to schema/stypeIn/symbols (each suffixed with suffix),
// requests replay from the beginning if replay is true, sends the
// start_session line, validates the binary stream preamble, and arms the
// double-buffered receive loop. On success the session moves to
// stateStreaming.
func (s *Session) Start(schema string, stypeIn lsg.SType, symbols []string, suffix string, replay bool) error {
	if s.currentState() != stateAuthenticated {
		return s.reportError(lsg.ProtocolError, "Start", errors.New("session is not authenticated"))
	}

	for _, line := range subscriptionLines(schema, stypeIn, symbols, suffix, replay) {
		if _, err := s.conn.Write(line); err != nil {
			return s.reportError(lsg.TransportError, "Start", fmt.Errorf("failed to send subscribe request: %w", err))
		}
	}
	if s.config.Verbose {
		s.logger.Info("[session.Start] sent subscription", "schema", schema, "symbols", len(symbols))
	}

	if _, err := s.conn.Write([]byte("start_session=0\n")); err != nil {
		return s.reportError(lsg.TransportError, "Start", fmt.Errorf("failed to send start_session: %w", err))
	}

	if err := s.readStreamPreamble(); err != nil {
		return err // already reported
	}

	s.armReceiveLoop()
	s.setState(stateStreaming)
	return nil
}

// subscriptionLines builds the control lines for one subscribe request,
// batching symbols into groups of at most maxSymbolsPerGroup.
func subscriptionLines(schema string, stypeIn lsg.SType, symbols []string, suffix string, replay bool) [][]byte {
	startField := ""
	if replay {
		startField = "start=0|"
	}

	if len(symbols) == 0 {
		line := fmt.Appendf(nil, "schema=%s|stype_in=%s|%ssymbols=ALL_SYMBOLS\n", schema, stypeIn.String(), startField)
		return [][]byte{line}
	}

	var lines [][]byte
	for start := 0; start < len(symbols); start += maxSymbolsPerGroup {
		end := start + maxSymbolsPerGroup
		if end > len(symbols) {
			end = len(symbols)
		}
		group := symbols[start:end]
		suffixed := make([]string, len(group))
		for i, sym := range group {
			suffixed[i] = sym + suffix
		}
		isLast := 0
		if end == len(symbols) {
			isLast = 1
		}
		line := fmt.Appendf(nil, "schema=%s|stype_in=%s|%sis_last=%d|symbols=%s\n",
			schema, stypeIn.String(), startField, isLast, strings.Join(suffixed, ","))
		lines = append(lines, line)
	}
	return lines
}

// dbnStreamSignature is the 3-byte ASCII magic every stream preamble opens
// with, followed by a single version byte.
var dbnStreamSignature = [3]byte{'D', 'B', 'N'}

const dbnStreamVersion = 1

// readStreamPreamble validates the 4-byte signature/version and discards
// the little-endian length-prefixed header body that follows, per §4.2.2.
func (s *Session) readStreamPreamble() error {
	var sigVer [4]byte
	if _, err := io.ReadFull(s.conn, sigVer[:]); err != nil {
		return s.reportError(lsg.ProtocolError, "readStreamPreamble", fmt.Errorf("failed to read signature: %w", err))
	}
	if sigVer[0] != dbnStreamSignature[0] || sigVer[1] != dbnStreamSignature[1] || sigVer[2] != dbnStreamSignature[2] {
		return s.reportError(lsg.ProtocolError, "readStreamPreamble", errors.New("bad stream signature"))
	}
	if sigVer[3] != dbnStreamVersion {
		return s.reportError(lsg.ProtocolError, "readStreamPreamble", fmt.Errorf("unsupported stream version %d", sigVer[3]))
	}

	var lenBuf [4]byte
	if _, err := io.ReadFull(s.conn, lenBuf[:]); err != nil {
		return s.reportError(lsg.ProtocolError, "readStreamPreamble", fmt.Errorf("failed to read header length: %w", err))
	}
	headerLen := binary.LittleEndian.Uint32(lenBuf[:])

	if headerLen > 0 {
		discard := make([]byte, headerLen)
		if _, err := io.ReadFull(s.conn, discard); err != nil {
			return s.reportError(lsg.ProtocolError, "readStreamPreamble", fmt.Errorf("failed to read header body: %w", err))
		}
	}
	return nil
}
