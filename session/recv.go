// Copyright (c) 2024 Neomantra Corp

package session

import (
	"errors"
	"io"

	"github.com/quantfeed/lsg-go"
)

// ioCompletion reports the result of one read into buffers[bufIdx]'s back
// half, delivered over the completions channel by a goroutine spawned from
// submit. This stands in for true kernel-assisted async I/O (e.g. io_uring),
// which nothing in this stack provides: each submit spawns a fresh reader
// goroutine for its buffer slot, so at most two reads are outstanding,
// approximating the same double-buffered pipeline.
type ioCompletion struct {
	bufIdx int
	n      int
	err    error
}

// armReceiveLoop allocates the double buffers and submits the first read on
// each, readying the session for repeated Get calls.
func (s *Session) armReceiveLoop() {
	s.buffers[0] = make([]byte, 2*s.bufCapacity)
	s.buffers[1] = make([]byte, 2*s.bufCapacity)
	s.carry = nil
	s.completions = make(chan ioCompletion, 2)
	s.submit(0)
	s.submit(1)
}

// submit spawns a goroutine that blocks on a single conn.Read into the back
// half of buffers[bufIdx] and reports the result on s.completions.
func (s *Session) submit(bufIdx int) {
	conn := s.conn
	back := s.buffers[bufIdx][s.bufCapacity : 2*s.bufCapacity]
	go func() {
		n, err := conn.Read(back)
		select {
		case s.completions <- ioCompletion{bufIdx: bufIdx, n: n, err: err}:
		case <-s.closing:
		}
	}()
}

// Get waits for the next filled buffer, decodes every complete record it
// holds, dispatches each to the handler, carries any trailing partial
// record forward, and resubmits the buffer for another read. It returns
// after a single completed read, which dispatches no records when less
// than one full record has arrived, or when the stream ends or an error
// occurs.
func (s *Session) Get() error {
	if s.currentState() != stateStreaming {
		return s.reportError(lsg.ProtocolError, "Get", errors.New("session is not streaming"))
	}

	var completion ioCompletion
	select {
	case completion = <-s.completions:
	case <-s.closing:
		return s.reportError(lsg.ConnectionLost, "Get", errors.New("session closed"))
	}

	if completion.err != nil {
		if errors.Is(completion.err, io.EOF) {
			s.reportError(lsg.ConnectionLost, "Get", completion.err)
			if err := s.handler.OnStreamEnd(); err != nil {
				return err
			}
			return completion.err
		}
		return s.reportError(lsg.TransportError, "Get", completion.err)
	}

	s.metrics.bytesReceived.Add(float64(completion.n))

	bufIdx := completion.bufIdx
	buf := s.buffers[bufIdx]

	// The payload window is the new bytes plus whatever carried over from
	// the previous buffer, placed immediately before them in the front
	// half so the two runs are contiguous without a separate copy target.
	start := s.bufCapacity - len(s.carry)
	if start < 0 {
		return s.reportError(lsg.BufferOverflow, "Get",
			errors.New("carry-over exceeds buffer capacity"))
	}
	copy(buf[start:s.bufCapacity], s.carry)
	payload := buf[start : s.bufCapacity+completion.n]

	consumed, err := s.dispatchRecords(payload)
	if err != nil {
		return err // already reported
	}

	remainder := payload[consumed:]
	if len(remainder) > s.bufCapacity {
		return s.reportError(lsg.BufferOverflow, "Get",
			errors.New("trailing partial record exceeds buffer capacity"))
	}
	s.carry = append(s.carry[:0], remainder...)

	s.metrics.buffersResubmitted.Inc()
	s.submit(bufIdx)
	return nil
}

// dispatchRecords decodes and dispatches every complete record in payload,
// returning the number of bytes consumed. A trailing partial record (fewer
// bytes remaining than its rlength promises, or fewer than a header) is
// left unconsumed for the caller to carry forward.
func (s *Session) dispatchRecords(payload []byte) (int, error) {
	consumed := 0
	for {
		rest := payload[consumed:]
		if len(rest) < lsg.RHeader_Size {
			return consumed, nil
		}
		var hdr lsg.RHeader
		if err := lsg.FillRHeader_Raw(rest[:lsg.RHeader_Size], &hdr); err != nil {
			return consumed, s.reportError(lsg.ProtocolError, "dispatchRecords", err)
		}
		recordLen := hdr.RecordLen()
		if recordLen < lsg.RHeader_Size {
			return consumed, s.reportError(lsg.ProtocolError, "dispatchRecords",
				errors.New("record length too small for header"))
		}
		if len(rest) < recordLen {
			return consumed, nil
		}

		if err := s.dispatchOne(hdr, rest[:recordLen]); err != nil {
			return consumed, err
		}
		s.metrics.recordsDispatched.Inc()
		consumed += recordLen
	}
}

// dispatchOne decodes one complete record of the given header and calls
// the matching Visitor method.
func (s *Session) dispatchOne(hdr lsg.RHeader, raw []byte) error {
	switch {
	case hdr.RType == lsg.RType_SymbolMapping:
		var rec lsg.SymbolMappingMsg
		if err := rec.Fill_Raw(raw); err != nil {
			return s.reportError(lsg.ProtocolError, "dispatchOne", err)
		}
		return s.handler.OnSymbolMapping(&rec)

	case hdr.RType == lsg.RType_InstrumentDef:
		var rec lsg.SecurityDefinitionMsg
		if err := rec.Fill_Raw(raw); err != nil {
			return s.reportError(lsg.ProtocolError, "dispatchOne", err)
		}
		return s.handler.OnSecurityDefinition(&rec)

	case hdr.RType == lsg.RType_Cmbp1:
		var rec lsg.Cmbp1Msg
		if err := rec.Fill_Raw(raw); err != nil {
			return s.reportError(lsg.ProtocolError, "dispatchOne", err)
		}
		return s.handler.OnCmbp1(&rec)

	case hdr.RType.IsQuote():
		var rec lsg.BboMsg
		if err := rec.Fill_Raw(raw); err != nil {
			return s.reportError(lsg.ProtocolError, "dispatchOne", err)
		}
		return s.handler.OnQuote(&rec)

	case hdr.RType == lsg.RType_Error:
		var rec lsg.ErrorMsg
		if err := rec.Fill_Raw(raw); err != nil {
			return s.reportError(lsg.ProtocolError, "dispatchOne", err)
		}
		s.reportError(lsg.GatewayError, "dispatchOne", errors.New(rec.Msg))
		return s.handler.OnErrorMsg(&rec)

	case hdr.RType == lsg.RType_System:
		var rec lsg.SystemMsg
		if err := rec.Fill_Raw(raw); err != nil {
			return s.reportError(lsg.ProtocolError, "dispatchOne", err)
		}
		return s.handler.OnSystemMsg(&rec)

	default:
		var rec lsg.RawRecord
		if err := rec.Fill_Raw(raw); err != nil {
			return s.reportError(lsg.ProtocolError, "dispatchOne", err)
		}
		return s.handler.OnRawRecord(&rec)
	}
}
