package server

import (
	"encoding/json"
	"net/http"

	"github.com/matzehuels/linkagesim/pkg/boundary"
	"github.com/matzehuels/linkagesim/pkg/buildinfo"
	"github.com/matzehuels/linkagesim/pkg/cache"
	"github.com/matzehuels/linkagesim/pkg/dimension"
	"github.com/matzehuels/linkagesim/pkg/errors"
	"github.com/matzehuels/linkagesim/pkg/geom"
	"github.com/matzehuels/linkagesim/pkg/scissor"
)

// driveRequest holds the fields shared by solve and sweep requests.
type driveRequest struct {
	Units    []dimension.RodSpec `json:"units"`
	Offset   float64             `json:"offset"`
	Mode     string              `json:"mode"`
	Topology string              `json:"topology"`
	Heading  float64             `json:"heading"`
}

// SolveRequest is the body of POST /v1/solve.
type SolveRequest struct {
	driveRequest
	Theta float64 `json:"theta"`
}

// SweepRequest is the body of POST /v1/sweep.
type SweepRequest struct {
	driveRequest
	From  float64 `json:"from"`
	To    float64 `json:"to"`
	Steps int     `json:"steps"`

	// IncludeSegments adds every step's segments to the response.
	IncludeSegments bool `json:"include_segments"`
}

// SolveResponse is the success body of POST /v1/solve.
type SolveResponse struct {
	Status    boundary.Status `json:"status"`
	Code      string          `json:"code"`
	Segments  []geom.Segment  `json:"segments"`
	Endpoint  geom.Vec2       `json:"endpoint"`
	Cached    bool            `json:"cached"`
	RequestID string          `json:"request_id"`
}

// SweepStep is one theta of a sweep response.
type SweepStep struct {
	Theta    float64         `json:"theta"`
	Status   boundary.Status `json:"status"`
	Code     string          `json:"code"`
	Message  string          `json:"message,omitempty"`
	Unit     *int            `json:"unit,omitempty"`
	Endpoint *geom.Vec2      `json:"endpoint,omitempty"`
	Segments []geom.Segment  `json:"segments,omitempty"`
}

// SweepResponse is the success body of POST /v1/sweep. Individual steps
// may still have failed.
type SweepResponse struct {
	Status    boundary.Status `json:"status"`
	Code      string          `json:"code"`
	Steps     []SweepStep     `json:"steps"`
	Failed    int             `json:"failed"`
	Cached    bool            `json:"cached"`
	RequestID string          `json:"request_id"`
}

// errorBody is returned for every failed request.
type errorBody struct {
	Status    boundary.Status `json:"status"`
	Code      string          `json:"code"`
	Message   string          `json:"message"`
	Unit      *int            `json:"unit,omitempty"`
	RequestID string          `json:"request_id"`
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status  string         `json:"status"`
	Version string         `json:"version"`
	Stats   *StatsSnapshot `json:"stats,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok", Version: buildinfo.Version}
	if s.stats != nil {
		snap := s.stats.Snapshot()
		resp.Stats = &snap
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req SolveRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	solver, store, err := s.prepare(req.driveRequest)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	key := s.keyer.SolveKey(cache.ChainHash(req.Units), cache.SolveKeyOpts{
		Mode:     solver.Mode().String(),
		Topology: solver.Topology().String(),
		Heading:  req.Heading,
		Theta:    req.Theta,
		Offset:   req.Offset,
	})
	sol, cached, err := cache.Fetch(ctx, s.cache, key, "solve", s.ttl, func() (*scissor.Solution, error) {
		return solver.SolveContext(ctx, store, req.Theta, req.Offset)
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, SolveResponse{
		Status:    boundary.StatusOK,
		Code:      boundary.StatusOK.String(),
		Segments:  sol.Segments,
		Endpoint:  sol.Endpoint(),
		Cached:    cached,
		RequestID: RequestIDFrom(ctx),
	})
}

func (s *Server) handleSweep(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req SweepRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Steps < 1 || req.Steps > maxSweepSteps {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "steps must be in [1, %d], got %d", maxSweepSteps, req.Steps))
		return
	}
	solver, store, err := s.prepare(req.driveRequest)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	key := s.keyer.SweepKey(cache.ChainHash(req.Units), cache.SweepKeyOpts{
		Mode:     solver.Mode().String(),
		Topology: solver.Topology().String(),
		Heading:  req.Heading,
		From:     req.From,
		To:       req.To,
		Steps:    req.Steps,
		Offset:   req.Offset,
	})
	if req.IncludeSegments {
		key += ":segments"
	}
	steps, cached, err := cache.Fetch(ctx, s.cache, key, "sweep", s.ttl, func() ([]SweepStep, error) {
		res, err := solver.Sweep(ctx, store, scissor.Linspace(req.From, req.To, req.Steps), req.Offset)
		if err != nil {
			return nil, err
		}
		return sweepSteps(res, req.IncludeSegments), nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	failed := 0
	for _, st := range steps {
		if st.Status != boundary.StatusOK {
			failed++
		}
	}
	writeJSON(w, http.StatusOK, SweepResponse{
		Status:    boundary.StatusOK,
		Code:      boundary.StatusOK.String(),
		Steps:     steps,
		Failed:    failed,
		Cached:    cached,
		RequestID: RequestIDFrom(ctx),
	})
}

// prepare builds the solver and store a request describes.
func (s *Server) prepare(req driveRequest) (*scissor.Solver, *dimension.Store, error) {
	mode, err := scissor.ParseMode(req.Mode)
	if err != nil {
		return nil, nil, err
	}
	topo, err := scissor.ParseTopology(req.Topology)
	if err != nil {
		return nil, nil, err
	}
	store, err := dimension.FromSpecs(req.Units)
	if err != nil {
		return nil, nil, err
	}
	opts := []scissor.Option{
		scissor.WithMode(mode),
		scissor.WithTopology(topo),
		scissor.WithHeading(req.Heading),
		scissor.WithLogger(s.logger),
	}
	if s.workers > 0 {
		opts = append(opts, scissor.WithWorkers(s.workers))
	}
	return scissor.New(opts...), store, nil
}

func sweepSteps(res []scissor.Step, withSegments bool) []SweepStep {
	out := make([]SweepStep, len(res))
	for i, st := range res {
		step := SweepStep{Theta: st.Theta, Status: boundary.StatusOf(st.Err)}
		step.Code = step.Status.String()
		if st.OK() {
			end := st.Solution.Endpoint()
			step.Endpoint = &end
			if withSegments {
				step.Segments = st.Solution.Segments
			}
		} else {
			step.Code = string(errors.GetCode(st.Err))
			step.Message = errors.UserMessage(st.Err)
			step.Unit = unitOf(st.Err)
		}
		out[i] = step
	}
	return out
}

// decode reads a JSON body, rejecting unknown fields and oversized bodies.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode request")
	}
	return nil
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	httpStatus := httpStatusOf(code)
	if httpStatus >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err, "request_id", RequestIDFrom(r.Context()))
	}
	writeJSON(w, httpStatus, errorBody{
		Status:    boundary.StatusOf(err),
		Code:      string(code),
		Message:   errors.UserMessage(err),
		Unit:      unitOf(err),
		RequestID: RequestIDFrom(r.Context()),
	})
}

func httpStatusOf(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidDimension, errors.ErrCodeDegenerateGeometry:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat, errors.ErrCodeIndexOutOfRange:
		return http.StatusBadRequest
	case errors.ErrCodeAllocation:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

func unitOf(err error) *int {
	if i, ok := errors.UnitIndex(err); ok {
		return &i
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
