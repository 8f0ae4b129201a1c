package server

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/paulmach/orb/geojson"

	"github.com/yijongkuk/mdmd/pkg/align"
	"github.com/yijongkuk/mdmd/pkg/cost"
	"github.com/yijongkuk/mdmd/pkg/envelope"
	"github.com/yijongkuk/mdmd/pkg/geo"
	"github.com/yijongkuk/mdmd/pkg/geodata"
	"github.com/yijongkuk/mdmd/pkg/placement"
	"github.com/yijongkuk/mdmd/pkg/projection"
	"github.com/yijongkuk/mdmd/pkg/validation"
	"github.com/yijongkuk/mdmd/pkg/zoning"
)

type errorResponse struct {
	Error string `json:"error"`
}

func abort(c *gin.Context, status int, err error) {
	c.AbortWithStatusJSON(status, errorResponse{Error: err.Error()})
}

type zoneInfo struct {
	Key        zoning.Zone       `json:"key"`
	KoreanName string            `json:"korean_name"`
	Regulation zoning.Regulation `json:"regulation"`
}

func (s *Server) handleZones(c *gin.Context) {
	zones := zoning.AllZones()
	out := make([]zoneInfo, len(zones))
	for i, z := range zones {
		out[i] = zoneInfo{Key: z, KoreanName: z.KoreanName(), Regulation: zoning.RegulationFor(z)}
	}
	c.JSON(http.StatusOK, out)
}

type envelopeRequest struct {
	Area float64      `json:"area"`
	Zone *zoning.Zone `json:"zone,omitempty"`
	// Boundary is in local meters; LonLat is geodetic and projected about
	// its centroid. At most one should be set.
	Boundary   geo.Ring            `json:"boundary,omitempty"`
	LonLat     []projection.LonLat `json:"lonlat,omitempty"`
	Regulation *zoning.Regulation  `json:"regulation,omitempty"`
}

type envelopeResponse struct {
	Envelope *envelope.Envelope         `json:"envelope"`
	Summary  envelope.Summary           `json:"summary"`
	Report   *validation.Report         `json:"report"`
	GeoJSON  *geojson.FeatureCollection `json:"geojson,omitempty"`
	Cached   bool                       `json:"cached"`
}

// key identifies a request by the hash of its canonical encoding.
func (r envelopeRequest) key() string {
	data, _ := json.Marshal(r)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func (s *Server) handleEnvelope(c *gin.Context) {
	var req envelopeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}
	if req.Zone == nil && req.Regulation == nil {
		abort(c, http.StatusBadRequest, errors.New("zone or regulation is required"))
		return
	}

	key := req.key()
	if rsp, ok := s.envelopes.Get(key); ok {
		rsp.Cached = true
		c.JSON(http.StatusOK, rsp)
		return
	}

	var reg zoning.Regulation
	if req.Regulation != nil {
		reg = *req.Regulation
	} else {
		if !req.Zone.Valid() {
			abort(c, http.StatusBadRequest, errors.New("unknown zone"))
			return
		}
		reg = zoning.RegulationFor(*req.Zone)
	}

	in := envelope.ParcelInput{Area: req.Area, Boundary: req.Boundary}
	var proj *projection.Projector
	if len(req.LonLat) > 0 {
		p := projection.New(projection.CentroidReference(req.LonLat))
		proj = &p
		in.Boundary = p.RingToLocal(req.LonLat)
	}

	env, err := envelope.Derive(in, reg)
	if err != nil {
		abort(c, http.StatusUnprocessableEntity, err)
		return
	}
	rsp := envelopeResponse{
		Envelope: env,
		Summary:  envelope.Summarize(env),
		Report:   validation.FromEnvelope(env),
	}
	if proj != nil {
		rsp.GeoJSON = geodata.EnvelopeFeatures(env, *proj)
	}
	s.envelopes.Set(key, rsp, 0)
	c.JSON(http.StatusOK, rsp)
}

type checkRequest struct {
	Grid placement.Grid `json:"grid"`
	// Boundary defaults to the loaded project's floor polygon.
	Boundary   geo.Ring              `json:"boundary,omitempty"`
	Placements []placement.Placement `json:"placements"`
	Candidate  placement.Placement   `json:"candidate"`
}

type checkResponse struct {
	Decision placement.Decision `json:"decision"`
	OBB      placement.OBB      `json:"obb"`
}

func (s *Server) handleCheck(c *gin.Context) {
	var req checkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}
	if err := req.Candidate.Check(); err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}
	for _, p := range req.Placements {
		if err := p.Check(); err != nil {
			abort(c, http.StatusBadRequest, err)
			return
		}
	}
	boundary := req.Boundary
	if len(boundary) == 0 {
		s.mu.RLock()
		boundary = s.env.BoundaryForFloor(req.Candidate.Floor)
		s.mu.RUnlock()
	}
	ix := placement.NewIndex(req.Grid, req.Placements)
	c.JSON(http.StatusOK, checkResponse{
		Decision: ix.Validate(req.Candidate, boundary),
		OBB:      req.Candidate.OBB(req.Grid),
	})
}

type alignRequest struct {
	Target    geo.Ring       `json:"target"`
	Buildings []geo.Ring     `json:"buildings"`
	Roads     []align.Road   `json:"roads"`
	Options   *align.Options `json:"options,omitempty"`
}

func (s *Server) handleAlign(c *gin.Context) {
	var req alignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}
	if !req.Target.IsValid() {
		abort(c, http.StatusBadRequest, errors.New("target needs at least 3 points"))
		return
	}
	opts := align.DefaultOptions()
	if req.Options != nil {
		opts = *req.Options
	}
	res := align.NewSolver(req.Buildings, req.Roads, opts).Solve(req.Target)
	s.log.Debug("align", "offset", res.Offset, "initial", res.InitialOverlap, "final", res.Overlap)
	c.JSON(http.StatusOK, res)
}

type projectResponse struct {
	Project  any                `json:"project"`
	Envelope *envelope.Envelope `json:"envelope"`
	Summary  envelope.Summary   `json:"summary"`
	Report   *validation.Report `json:"report"`
	Cost     *cost.Report       `json:"cost,omitempty"`
}

func (s *Server) handleProject(c *gin.Context) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.proj == nil {
		abort(c, http.StatusNotFound, errors.New("no project loaded"))
		return
	}

	report := validation.ValidateSchema(s.proj)
	report.Merge(validation.FromEnvelope(s.env))
	rsp := projectResponse{
		Project:  s.proj,
		Envelope: s.env,
		Summary:  envelope.Summarize(s.env),
		Report:   report,
	}
	if items, err := s.proj.Items(); err == nil {
		pls := make([]placement.Placement, len(items))
		for i, it := range items {
			pls[i] = it.Placement
		}
		report.Merge(validation.ValidatePlacements(pls, s.env, placement.NewKernel(s.proj.Grid)))
		rsp.Cost = cost.Estimate(items, cost.DefaultOptions())
	}
	c.JSON(http.StatusOK, rsp)
}
