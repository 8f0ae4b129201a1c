package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/gin-gonic/gin"

	"github.com/yijongkuk/mdmd/pkg/geo"
	"github.com/yijongkuk/mdmd/pkg/interaction"
	"github.com/yijongkuk/mdmd/pkg/placement"
)

// Drag socket message types.
const (
	MsgBegin     = "begin"
	MsgMove      = "move"
	MsgRotate    = "rotate"
	MsgCommit    = "commit"
	MsgCancel    = "cancel"
	MsgState     = "state"
	MsgPreview   = "preview"
	MsgCommitted = "committed"
	MsgRejected  = "rejected"
	MsgCancelled = "cancelled"
	MsgError     = "error"
)

// DragRequest is a pointer event from the client. X and Z are world meters.
type DragRequest struct {
	Type string  `json:"type"`
	ID   string  `json:"id,omitempty"`
	X    float64 `json:"x"`
	Z    float64 `json:"z"`
}

// DragResponse answers every request on the socket.
type DragResponse struct {
	Type      string               `json:"type"`
	State     interaction.State    `json:"state"`
	Preview   *interaction.Preview `json:"preview,omitempty"`
	Placement *placement.Placement `json:"placement,omitempty"`
	Reason    placement.Reason     `json:"reason,omitempty"`
	Error     string               `json:"error,omitempty"`
}

func (s *Server) handleDrag(c *gin.Context) {
	s.mu.RLock()
	loaded := s.proj != nil
	s.mu.RUnlock()
	if !loaded {
		abort(c, http.StatusNotFound, errors.New("no project loaded"))
		return
	}

	conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		s.log.Warn("drag accept", "error", err)
		return
	}
	defer conn.Close(websocket.StatusInternalError, "")

	ctx := c.Request.Context()
	sess := &dragSession{srv: s}
	for {
		var req DragRequest
		if err := wsjson.Read(ctx, conn, &req); err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure || errors.Is(err, context.Canceled) {
				conn.Close(websocket.StatusNormalClosure, "")
				return
			}
			s.log.Debug("drag read", "error", err)
			return
		}
		rsp := sess.handle(req)
		if err := wsjson.Write(ctx, conn, rsp); err != nil {
			s.log.Debug("drag write", "error", err)
			return
		}
	}
}

// dragSession holds one connection's drag. A new snapshot of the project's
// placements is taken on every begin.
type dragSession struct {
	srv  *Server
	drag *interaction.ModuleDrag
}

func (d *dragSession) state() interaction.State {
	if d.drag == nil {
		return interaction.Idle
	}
	return d.drag.State()
}

func (d *dragSession) fail(err error) DragResponse {
	return DragResponse{Type: MsgError, State: d.state(), Error: err.Error()}
}

func (d *dragSession) handle(req DragRequest) DragResponse {
	at := geo.Pt(req.X, req.Z)
	switch req.Type {
	case MsgBegin:
		return d.begin(req.ID, at)
	case MsgMove, MsgRotate:
		if d.drag == nil {
			return d.fail(fmt.Errorf("%w: %s before begin", interaction.ErrInvalidTransition, req.Type))
		}
		var pv interaction.Preview
		var err error
		if req.Type == MsgMove {
			pv, err = d.drag.Move(at)
		} else {
			pv, err = d.drag.Rotate()
		}
		if err != nil {
			return d.fail(err)
		}
		return DragResponse{Type: MsgPreview, State: pv.State, Preview: &pv}
	case MsgCommit:
		return d.commit()
	case MsgCancel:
		if d.drag == nil {
			return d.fail(fmt.Errorf("%w: cancel before begin", interaction.ErrInvalidTransition))
		}
		pl, err := d.drag.Cancel()
		if err != nil {
			return d.fail(err)
		}
		_ = d.drag.Reset()
		return DragResponse{Type: MsgCancelled, State: d.drag.State(), Placement: &pl}
	default:
		return d.fail(fmt.Errorf("unknown message type %q", req.Type))
	}
}

func (d *dragSession) begin(id string, at geo.Point2D) DragResponse {
	if d.drag != nil && d.drag.State() != interaction.Idle {
		return d.fail(fmt.Errorf("%w: begin while %s", interaction.ErrInvalidTransition, d.drag.State()))
	}

	s := d.srv
	s.mu.RLock()
	pls, err := s.proj.Placements()
	grid := s.proj.Grid
	env := s.env
	s.mu.RUnlock()
	if err != nil {
		return d.fail(err)
	}

	var target *placement.Placement
	for i := range pls {
		if pls[i].ID == id {
			target = &pls[i]
			break
		}
	}
	if target == nil {
		return d.fail(fmt.Errorf("no placement %q", id))
	}

	d.drag = interaction.NewModuleDrag(placement.NewIndex(grid, pls), env.BoundaryForFloor)
	if err := d.drag.Begin(*target, at); err != nil {
		return d.fail(err)
	}
	return DragResponse{Type: MsgState, State: d.drag.State(), Placement: target}
}

func (d *dragSession) commit() DragResponse {
	if d.drag == nil {
		return d.fail(fmt.Errorf("%w: commit before begin", interaction.ErrInvalidTransition))
	}
	pl, err := d.drag.Commit()
	defer func() { _ = d.drag.Reset() }()

	var rejected *placement.RejectedError
	if errors.As(err, &rejected) {
		return DragResponse{Type: MsgRejected, State: d.drag.State(), Placement: &pl, Reason: rejected.Reason}
	}
	if err != nil {
		return d.fail(err)
	}

	// The session's index is a snapshot from begin; another connection may
	// have committed into the same cells since.
	s := d.srv
	s.mu.Lock()
	defer s.mu.Unlock()
	fresh, err := s.proj.Placements()
	if err != nil {
		return d.fail(err)
	}
	if dec := placement.NewKernel(s.proj.Grid).Validate(pl, fresh, s.env.BoundaryForFloor(pl.Floor)); !dec.OK() {
		orig := pl
		for _, p := range fresh {
			if p.ID == pl.ID {
				orig = p
				break
			}
		}
		s.log.Info("stale drag rejected", "id", pl.ID, "reason", dec.Reason)
		return DragResponse{Type: MsgRejected, State: interaction.Cancelled, Placement: &orig, Reason: dec.Reason}
	}
	if err := s.proj.Apply(pl); err != nil {
		return d.fail(err)
	}
	if s.cfg.Persist {
		if err := s.proj.Save(s.projectFile()); err != nil {
			s.log.Error("saving project", "error", err)
			return d.fail(err)
		}
	}
	s.log.Info("placement moved", "id", pl.ID, "grid_x", pl.GridX, "grid_z", pl.GridZ, "rotation", int(pl.Rotation))
	return DragResponse{Type: MsgCommitted, State: d.drag.State(), Placement: &pl}
}
