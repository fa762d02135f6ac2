package http

import (
	"resume-builder/internal/domain"
	apperrors "resume-builder/internal/errors"
	"resume-builder/internal/model"
	"resume-builder/internal/render"
	"resume-builder/internal/theme"
	"resume-builder/internal/usecase"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handler struct {
	exporter *usecase.Exporter
	drafts   *usecase.Drafts
	form     *usecase.Form
}

func NewHandler(e *usecase.Exporter, d *usecase.Drafts, f *usecase.Form) *Handler {
	return &Handler{exporter: e, drafts: d, form: f}
}

func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (h *Handler) Templates(c *fiber.Ctx) error {
	return c.JSON(theme.All())
}

func (h *Handler) Preview(c *fiber.Ctx) error {
	var req model.PreviewRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}
	out, err := h.exporter.Preview(c.UserContext(), req.Document, req.TemplateID)
	if err != nil {
		return err
	}
	c.Type("html", "utf-8")
	return c.Send(out)
}

func (h *Handler) Export(c *fiber.Ctx) error {
	var req model.ExportRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	req.Encoding = c.Params("encoding")
	if err := req.Validate(); err != nil {
		return err
	}
	a, err := h.exporter.Export(c.UserContext(), usecase.ExportRequest{
		UserID:     userID(c).String(),
		TemplateID: req.TemplateID,
		Encoding:   render.Encoding(req.Encoding),
		Document:   req.Document,
	})
	if err != nil {
		return err
	}
	return sendArtifact(c, a)
}

func (h *Handler) Progress(c *fiber.Ctx) error {
	var req model.FormRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	state, err := h.form.State(req.Document)
	if err != nil {
		return err
	}
	return c.JSON(state)
}

func (h *Handler) AddEntry(c *fiber.Ctx) error {
	req, err := entryRequest(c, false)
	if err != nil {
		return err
	}
	state, err := h.form.AddEntry(req.Document, domain.Section(req.Section))
	if err != nil {
		return err
	}
	return c.JSON(state)
}

func (h *Handler) RemoveEntry(c *fiber.Ctx) error {
	req, err := entryRequest(c, true)
	if err != nil {
		return err
	}
	state, err := h.form.RemoveEntry(req.Document, domain.Section(req.Section), req.Index)
	if err != nil {
		return err
	}
	return c.JSON(state)
}

func (h *Handler) ListDrafts(c *fiber.Ctx) error {
	drafts, err := h.drafts.List(c.UserContext(), userID(c))
	if err != nil {
		return err
	}
	return c.JSON(drafts)
}

func (h *Handler) SaveDraft(c *fiber.Ctx) error {
	var req model.SaveDraftRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	d, err := h.drafts.Save(c.UserContext(), userID(c), req)
	if err != nil {
		return err
	}
	status := fiber.StatusOK
	if req.ID == "" {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(d)
}

func (h *Handler) GetDraft(c *fiber.Ctx) error {
	id, err := draftID(c)
	if err != nil {
		return err
	}
	d, err := h.drafts.Get(c.UserContext(), userID(c), id)
	if err != nil {
		return err
	}
	return c.JSON(d)
}

func (h *Handler) DeleteDraft(c *fiber.Ctx) error {
	id, err := draftID(c)
	if err != nil {
		return err
	}
	if err := h.drafts.Delete(c.UserContext(), userID(c), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) ExportDraft(c *fiber.Ctx) error {
	id, err := draftID(c)
	if err != nil {
		return err
	}
	enc, err := render.ParseEncoding(c.Params("encoding"))
	if err != nil {
		return err
	}
	a, err := h.drafts.Export(c.UserContext(), userID(c), id, enc)
	if err != nil {
		return err
	}
	return sendArtifact(c, a)
}

func sendArtifact(c *fiber.Ctx, a *usecase.Artifact) error {
	c.Attachment(a.Filename)
	c.Set(fiber.HeaderContentType, a.ContentType)
	return c.Send(a.Bytes)
}

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperrors.InvalidInput("invalid payload", err)
	}
	return nil
}

// entryRequest assembles the section/index path parameters and the document
// body into one validated request.
func entryRequest(c *fiber.Ctx, withIndex bool) (model.EntryRequest, error) {
	var body model.FormRequest
	if err := parseBody(c, &body); err != nil {
		return model.EntryRequest{}, err
	}
	req := model.EntryRequest{Section: c.Params("section"), Document: body.Document}
	if withIndex {
		idx, err := c.ParamsInt("index")
		if err != nil {
			return model.EntryRequest{}, apperrors.InvalidInput("index must be an integer", err)
		}
		req.Index = idx
	}
	if err := req.Validate(); err != nil {
		return model.EntryRequest{}, err
	}
	return req, nil
}

// draftID parses the :id parameter. A malformed id cannot name one of the
// caller's drafts, so it is reported as not found.
func draftID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, domain.ErrDraftNotFound
	}
	return id, nil
}
