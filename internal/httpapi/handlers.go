package httpapi

import (
	"bytes"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kitbuilder587/lead-radar/internal/domain"
	"github.com/kitbuilder587/lead-radar/internal/mail"
	"github.com/kitbuilder587/lead-radar/internal/service"
)

const maxRunsLimit = 50

type handlers struct {
	leads    service.LeadService
	history  service.HistoryService
	outreach service.OutreachService
	logger   *zap.Logger
}

type searchRequest struct {
	Criteria domain.SearchCriteria `json:"criteria"`
	Mode     domain.ModeType       `json:"mode"`
}

type platformQueries struct {
	Platform domain.Platform `json:"platform"`
	Queries  []string        `json:"queries"`
}

type previewResponse struct {
	Mode      domain.ModeType       `json:"mode"`
	MaxPages  int                   `json:"maxPages"`
	Criteria  domain.SearchCriteria `json:"criteria"`
	Platforms []platformQueries     `json:"platforms"`
	Advanced  []domain.DorkQuery    `json:"advanced,omitempty"`
	Text      string                `json:"text"`
}

type runView struct {
	ID              string                  `json:"id"`
	Criteria        domain.SearchCriteria   `json:"criteria"`
	Mode            domain.ModeType         `json:"mode"`
	Outcome         domain.Outcome          `json:"outcome"`
	TotalCount      int                     `json:"totalCount"`
	DorkQueries     []string                `json:"dorkQueries,omitempty"`
	PlatformResults []domain.PlatformResult `json:"platformResults,omitempty"`
	Leads           []domain.Lead           `json:"leads,omitempty"`
	DurationMs      int64                   `json:"durationMs"`
	CreatedAt       time.Time               `json:"createdAt"`
}

type outreachRequest struct {
	RunID    string            `json:"runId" binding:"required"`
	Subject  string            `json:"subject" binding:"required"`
	Template string            `json:"template" binding:"required"`
	From     mail.Address      `json:"from"`
	Vars     map[string]string `json:"vars"`
	// только лиды с этими id; пусто - все лиды прогона
	LeadIDs []string `json:"leadIds"`
}

func (h *handlers) search(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	res, err := h.leads.Generate(c.Request.Context(), service.GenerateRequest{
		OwnerID:  ownerID(c),
		Criteria: req.Criteria,
		Mode:     req.Mode,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *handlers) preview(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	p, err := h.leads.Preview(service.GenerateRequest{Criteria: req.Criteria, Mode: req.Mode})
	if err != nil {
		h.fail(c, err)
		return
	}

	resp := previewResponse{
		Mode:      p.Mode.Type,
		MaxPages:  p.Criteria.MaxPages,
		Criteria:  p.Criteria,
		Platforms: make([]platformQueries, 0, len(p.Platforms)),
		Advanced:  p.Advanced,
		Text:      p.Text,
	}
	for _, pq := range p.Platforms {
		resp.Platforms = append(resp.Platforms, platformQueries{Platform: pq.Platform, Queries: pq.Queries})
	}

	c.JSON(http.StatusOK, resp)
}

func (h *handlers) listRuns(c *gin.Context) {
	owner, ok := h.requireOwner(c)
	if !ok {
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			badRequest(c, "limit must be a positive integer")
			return
		}
		limit = min(n, maxRunsLimit)
	}

	runs, err := h.history.Recent(c.Request.Context(), owner, limit)
	if err != nil {
		h.fail(c, err)
		return
	}

	out := make([]runView, 0, len(runs))
	for _, r := range runs {
		v := newRunView(r)
		v.Leads = nil
		out = append(out, v)
	}
	c.JSON(http.StatusOK, gin.H{"runs": out})
}

func (h *handlers) getRun(c *gin.Context) {
	run, ok := h.loadRun(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, newRunView(*run))
}

func (h *handlers) exportRun(c *gin.Context) {
	format, err := service.ParseExportFormat(c.Query("format"))
	if err != nil {
		h.fail(c, err)
		return
	}

	run, ok := h.loadRun(c)
	if !ok {
		return
	}
	if len(run.Leads) == 0 {
		h.fail(c, domain.ErrNoLeads)
		return
	}

	var buf bytes.Buffer
	if err := service.Export(&buf, format, run.Leads); err != nil {
		h.fail(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+format.FileName(run.Result())+`"`)
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}

func (h *handlers) sendOutreach(c *gin.Context) {
	if h.outreach == nil {
		h.fail(c, service.ErrMailNotConfigured)
		return
	}

	var req outreachRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	owner, ok := h.requireOwner(c)
	if !ok {
		return
	}
	run, err := h.history.Get(c.Request.Context(), owner, req.RunID)
	if err != nil {
		h.fail(c, err)
		return
	}

	res, err := h.outreach.Send(c.Request.Context(), service.OutreachRequest{
		From:     req.From,
		Subject:  req.Subject,
		Template: req.Template,
		Leads:    pickLeads(run.Leads, req.LeadIDs),
		Vars:     req.Vars,
	})
	if err != nil {
		// частичный результат важнее ошибки, если что-то уже ушло
		if res != nil && res.Sent > 0 {
			h.logger.Warn("outreach interrupted", zap.Error(err), zap.Int("sent", res.Sent))
			c.JSON(http.StatusMultiStatus, res)
			return
		}
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *handlers) requireOwner(c *gin.Context) (string, bool) {
	if h.history == nil {
		c.JSON(http.StatusServiceUnavailable, errorBody{Error: "not_configured", Message: "history is disabled"})
		return "", false
	}
	owner := ownerID(c)
	if owner == "" {
		h.fail(c, domain.ErrUnauthorized)
		return "", false
	}
	return owner, true
}

func (h *handlers) loadRun(c *gin.Context) (*domain.Run, bool) {
	owner, ok := h.requireOwner(c)
	if !ok {
		return nil, false
	}
	run, err := h.history.Get(c.Request.Context(), owner, c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return nil, false
	}
	return run, true
}

func pickLeads(leads []domain.Lead, ids []string) []domain.Lead {
	if len(ids) == 0 {
		return leads
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []domain.Lead
	for _, l := range leads {
		if want[l.ID] {
			out = append(out, l)
		}
	}
	return out
}

func newRunView(r domain.Run) runView {
	return runView{
		ID:              r.ID,
		Criteria:        r.Criteria,
		Mode:            r.Mode,
		Outcome:         r.Outcome,
		TotalCount:      r.TotalCount,
		DorkQueries:     r.DorkQueries,
		PlatformResults: r.PlatformResults,
		Leads:           r.Leads,
		DurationMs:      r.Duration.Milliseconds(),
		CreatedAt:       r.CreatedAt,
	}
}
