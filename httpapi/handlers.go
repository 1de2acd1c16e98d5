package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tbxark/checkoutbuilder/defaults"
	"github.com/tbxark/checkoutbuilder/patch"
	"github.com/tbxark/checkoutbuilder/pricing"
	"github.com/tbxark/checkoutbuilder/store"
	"github.com/tbxark/checkoutbuilder/types"
	"github.com/tbxark/checkoutbuilder/validation"
)

const maxInstructionSize = 4 << 10

type saveRequest struct {
	Config           *types.CheckoutConfiguration `json:"config"`
	Name             string                       `json:"name"`
	Description      string                       `json:"description"`
	ExpectedRevision *int64                       `json:"expectedRevision"`
}

type patchRequest struct {
	Operations []patch.Operation `json:"operations"`
}

type validateRequest struct {
	Config   *types.CheckoutConfiguration `json:"config"`
	Step     int                          `json:"step"`
	FormData types.FormData               `json:"formData"`
}

type couponRequest struct {
	Code string `json:"code"`
}

type assistRequest struct {
	Instruction string `json:"instruction"`
	Save        bool   `json:"save"`
}

func bind(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return badRequest{fmt.Errorf("invalid JSON: %w", err)}
	}
	return nil
}

// current returns the tenant's saved configuration, or the default one at
// revision zero when nothing has been saved.
func (s *Server) current(ctx context.Context) (store.Saved, error) {
	saved, err := s.configs.Load(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return store.Saved{Config: defaults.Configuration()}, nil
	}
	return saved, err
}

func (s *Server) handleSave(c *gin.Context) {
	var req saveRequest
	if err := bind(c, &req); err != nil {
		s.fail(c, err)
		return
	}
	saved, err := s.configs.Save(c.Request.Context(), store.SaveRequest{
		Config:           req.Config,
		Name:             req.Name,
		Description:      req.Description,
		ExpectedRevision: req.ExpectedRevision,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":  "Configuration saved successfully",
		"revision": saved.Revision,
	})
}

func (s *Server) handleLoad(c *gin.Context) {
	saved, err := s.configs.Load(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": saved})
}

// handleProducts serves the catalog. With ?model= each product's price is
// switched to that pricing model.
func (s *Server) handleProducts(c *gin.Context) {
	products, err := s.catalog.Products(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	if m := c.Query("model"); m != "" {
		model := types.PricingModel(m)
		if !model.Valid() {
			s.fail(c, badRequest{fmt.Errorf("unknown pricing model %q", m)})
			return
		}
		products = pricing.Reprice(products, model)
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// handlePatch applies RFC 6902 operations to the stored configuration and
// saves the result against the revision it was read at.
func (s *Server) handlePatch(c *gin.Context) {
	var req patchRequest
	if err := bind(c, &req); err != nil {
		s.fail(c, err)
		return
	}
	ctx := c.Request.Context()
	cur, err := s.current(ctx)
	if err != nil {
		s.fail(c, err)
		return
	}
	out, err := patch.Apply(cur.Config, req.Operations)
	if err != nil {
		s.fail(c, badRequest{err})
		return
	}
	saved, err := s.configs.Save(ctx, store.SaveRequest{
		Config:           out,
		Name:             cur.Name,
		Description:      cur.Description,
		ExpectedRevision: &cur.Revision,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": saved})
}

func (s *Server) handleSchema(c *gin.Context) {
	schema, err := types.JSONSchema()
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Data(http.StatusOK, "application/schema+json", []byte(schema))
}

// handleValidate runs step validation. Without a config in the body the
// tenant's current configuration is used.
func (s *Server) handleValidate(c *gin.Context) {
	var req validateRequest
	if err := bind(c, &req); err != nil {
		s.fail(c, err)
		return
	}
	cfg := req.Config
	if cfg == nil {
		cur, err := s.current(c.Request.Context())
		if err != nil {
			s.fail(c, err)
			return
		}
		cfg = cur.Config
	}
	if req.Step < 0 || req.Step >= len(cfg.Steps) {
		s.fail(c, badRequest{fmt.Errorf("step %d out of range [0, %d)", req.Step, len(cfg.Steps))})
		return
	}
	errs := s.validator.ValidateStep(cfg.Steps[req.Step], req.FormData)
	c.JSON(http.StatusOK, gin.H{
		"errors":     errs,
		"valid":      !validation.HasErrors(errs),
		"transition": validation.Advance(req.Step, len(cfg.Steps), errs).String(),
	})
}

func (s *Server) handleTotals(c *gin.Context) {
	var in pricing.Input
	if err := bind(c, &in); err != nil {
		s.fail(c, err)
		return
	}
	if in.Model == "" {
		in.Model = types.PricingOneTime
	}
	if !in.Model.Valid() {
		s.fail(c, badRequest{fmt.Errorf("unknown pricing model %q", in.Model)})
		return
	}
	in.Products = pricing.Reprice(in.Products, in.Model)
	c.JSON(http.StatusOK, gin.H{
		"totals": pricing.Calculate(in, s.rates),
		"lines":  pricing.Lines(in),
	})
}

func (s *Server) handleApplyCoupon(c *gin.Context) {
	var req couponRequest
	if err := bind(c, &req); err != nil {
		s.fail(c, err)
		return
	}
	coupon, err := s.coupons.Lookup(c.Request.Context(), req.Code)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"coupon": coupon})
}

func (s *Server) handleAssist(c *gin.Context) {
	if s.assistant == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "assistant is not configured"})
		return
	}
	var req assistRequest
	if err := bind(c, &req); err != nil {
		s.fail(c, err)
		return
	}
	req.Instruction = strings.TrimSpace(req.Instruction)
	if req.Instruction == "" || len(req.Instruction) > maxInstructionSize {
		s.fail(c, badRequest{errors.New("instruction must be between 1 and 4096 bytes")})
		return
	}

	ctx := c.Request.Context()
	cur, err := s.current(ctx)
	if err != nil {
		s.fail(c, err)
		return
	}
	result, err := s.assistant.Edit(ctx, cur.Config, req.Instruction)
	if err != nil {
		s.fail(c, err)
		return
	}
	data := gin.H{
		"config":     result.Config,
		"operations": result.Operations,
	}
	if req.Save {
		saved, err := s.configs.Save(ctx, store.SaveRequest{
			Config:           result.Config,
			Name:             cur.Name,
			Description:      cur.Description,
			ExpectedRevision: &cur.Revision,
		})
		if err != nil {
			s.fail(c, err)
			return
		}
		data["revision"] = saved.Revision
		s.logger.Info("assistant edit saved", zapRequestID(c), zap.Int64("revision", saved.Revision))
	}
	c.JSON(http.StatusOK, gin.H{"data": data})
}

func (s *Server) handleClearHistory(c *gin.Context) {
	if s.assistant == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "assistant is not configured"})
		return
	}
	if err := s.assistant.ClearHistory(c.Request.Context()); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
