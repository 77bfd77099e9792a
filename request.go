package banknet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bassosimone/errclass"
	"github.com/joy-dx/banknet/dto"
	"github.com/joy-dx/banknet/relays"
)

// Do sends req through the plugin chain and the transport selected by
// req.ClientRef. Prepare hooks see a private clone of req; process hooks see
// req itself and the response. Every failure is a *dto.Error.
func (s *NetSvc) Do(ctx context.Context, req *dto.Request) (dto.Response, error) {
	if req == nil {
		return dto.Response{}, dto.TransportError(dto.ErrNilRequest)
	}

	netClient, err := s.client(req.ClientRef)
	if err != nil {
		return dto.Response{}, s.fail(req, dto.STAGE_INIT, dto.TransportError(err))
	}
	s.track(req, dto.STAGE_INIT, 0, nil)

	// PREPARE[0..N)
	work := req.Clone()
	s.track(req, dto.STAGE_PREPARE, 0, nil)
	for _, p := range s.plugins {
		if err := s.runHook(p, dto.STAGE_PREPARE, func() error {
			return p.Prepare(ctx, work)
		}); err != nil {
			return dto.Response{}, s.fail(req, dto.STAGE_PREPARE, dto.AsError(err, dto.KindPlugin))
		}
	}

	// TRANSPORT
	if err := ctx.Err(); err != nil {
		return dto.Response{}, s.fail(req, dto.STAGE_TRANSPORT, dto.TransportError(err))
	}
	s.track(req, dto.STAGE_TRANSPORT, 0, nil)
	resp, err := netClient.ProcessRequest(ctx, work)
	if ctxErr := ctx.Err(); ctxErr != nil {
		// a response arriving after cancellation is never processed
		return dto.Response{}, s.fail(req, dto.STAGE_TRANSPORT, dto.TransportError(ctxErr))
	}
	if err != nil {
		return dto.Response{}, s.fail(req, dto.STAGE_TRANSPORT, dto.TransportError(err))
	}

	// PROCESS[0..N)
	s.track(req, dto.STAGE_PROCESS, resp.StatusCode, nil)
	for _, p := range s.plugins {
		if err := ctx.Err(); err != nil {
			return dto.Response{}, s.fail(req, dto.STAGE_PROCESS, dto.TransportError(err))
		}
		if err := s.runHook(p, dto.STAGE_PROCESS, func() error {
			return p.Process(ctx, req, &resp)
		}); err != nil {
			return dto.Response{}, s.failWithStatus(req, dto.STAGE_PROCESS, resp.StatusCode, dto.AsError(err, dto.KindPlugin))
		}
	}

	s.track(req, dto.STAGE_DONE, resp.StatusCode, nil)
	return resp, nil
}

// runHook calls one plugin hook. Panics become errors; errors of best-effort
// plugins are reported and dropped.
func (s *NetSvc) runHook(p dto.Plugin, stage dto.RequestStage, hook func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("plugin %s panicked: %v", p.Name(), r)
		}
		if err != nil && isBestEffort(p) {
			s.relay.Warn(relays.RlyNetLog{
				Msg:   fmt.Sprintf("best-effort plugin %s failed", p.Name()),
				Stage: stage,
				Err:   err.Error(),
			})
			err = nil
		}
	}()
	return hook()
}

func isBestEffort(p dto.Plugin) bool {
	be, ok := p.(dto.BestEffortPlugin)
	return ok && be.BestEffort()
}

func (s *NetSvc) fail(req *dto.Request, stage dto.RequestStage, err *dto.Error) error {
	return s.failWithStatus(req, stage, 0, err)
}

func (s *NetSvc) failWithStatus(req *dto.Request, stage dto.RequestStage, statusCode int, err *dto.Error) error {
	evt := relays.RlyNetLog{
		Msg:     "request failed",
		Method:  req.Method,
		Target:  req.Target(),
		Stage:   stage,
		ErrKind: err.Kind.String(),
		Err:     err.Error(),
	}
	if err.Kind == dto.KindTransport && err.Err != nil && !errors.Is(err.Err, dto.ErrClientNotFound) {
		evt.ErrClass = errclass.New(err.Err)
	}
	s.relay.Warn(evt)
	s.track(req, dto.STAGE_ERROR, statusCode, err)
	return err
}

// track records the last stage reached by req.Key(). In-flight requests are
// always kept; only the most recent historyCap finished ones are.
func (s *NetSvc) track(req *dto.Request, stage dto.RequestStage, statusCode int, err error) {
	key := req.Key()
	status := dto.RequestStatus{
		Method:     req.Method,
		Target:     req.Target(),
		Stage:      stage,
		StatusCode: statusCode,
		UpdatedAt:  time.Now(),
	}
	if err != nil {
		status.Error = err.Error()
	}

	s.muHistory.Lock()
	s.requestState.Set(key, status)
	if stage.Finished() {
		s.remember(key)
	}
	s.muHistory.Unlock()

	if stage != dto.STAGE_ERROR {
		s.relay.Debug(relays.RlyNetLog{
			Msg:    string(stage),
			Method: req.Method,
			Target: req.Target(),
			Stage:  stage,
		})
	}
}

// remember marks key as the newest finished request and evicts the oldest
// finished ones beyond historyCap. Callers hold muHistory.
func (s *NetSvc) remember(key string) {
	if el, ok := s.finishedAt[key]; ok {
		s.finished.MoveToBack(el)
	} else {
		s.finishedAt[key] = s.finished.PushBack(key)
	}

	for s.finished.Len() > s.historyCap {
		oldest := s.finished.Remove(s.finished.Front()).(string)
		delete(s.finishedAt, oldest)
		if st, err := s.requestState.Get(oldest); err == nil && st.Stage.Finished() {
			s.requestState.Remove(oldest)
		}
	}
}
