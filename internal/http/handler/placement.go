package handler

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"signapi/internal/http/middleware"
	"signapi/internal/service"
)

// submitPlacementRequest is the submission payload. X and Y are pointers so
// an absent coordinate can be told apart from a legitimate 0.
type submitPlacementRequest struct {
	DocumentID string   `json:"document_id"`
	PageNumber int      `json:"page_number"`
	X          *float64 `json:"x"`
	Y          *float64 `json:"y"`
	ImageKey   string   `json:"image_key"`
	Text       string   `json:"text"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// SubmitPlacement validates and persists a new mark position.
func SubmitPlacement(svc service.PlacementService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req submitPlacementRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
		}
		if req.DocumentID == "" || req.X == nil || req.Y == nil {
			return writeError(c, fiber.StatusBadRequest, "MISSING_FIELDS", "document_id, x and y are required")
		}

		p, err := svc.Submit(c.UserContext(), service.SubmitPlacementInput{
			DocumentID: req.DocumentID,
			AuthorID:   middleware.UserIDFromCtx(c),
			PageNumber: req.PageNumber,
			X:          *req.X,
			Y:          *req.Y,
			ImageKey:   req.ImageKey,
			Text:       req.Text,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(p)
	}
}

// UploadSignatureImage stores a stamp image asset (multipart field: file) and
// returns its object key.
func UploadSignatureImage(svc service.PlacementService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}
		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		key, err := svc.UploadImage(c.UserContext(), f, fh.Filename, ct, fh.Size)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"image_key": key})
	}
}

// ListPlacements returns a document's placements in creation order.
func ListPlacements(svc service.PlacementService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.ListByDocument(c.UserContext(), c.Params("fileId"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(items)
	}
}

// AuditTrail returns a document's placements newest first.
func AuditTrail(svc service.PlacementService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.AuditTrail(c.UserContext(), c.Params("fileId"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(items)
	}
}

// UpdatePlacementStatus applies a review decision to a placement.
func UpdatePlacementStatus(svc service.PlacementService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req updateStatusRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
		}
		p, err := svc.UpdateStatus(c.UserContext(), c.Params("id"), req.Status)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(p)
	}
}

// GenerateSigned composites the document's placements into a downloadable PDF.
func GenerateSigned(svc service.PlacementService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("fileId")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		res, err := svc.Generate(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}

		c.Set(fiber.HeaderContentType, res.ContentType)
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", res.Filename))
		c.Set("X-Skipped-Placements", strconv.Itoa(res.Skipped))
		return c.Send(res.Data)
	}
}

// ListActivities returns recent activity records, newest first.
func ListActivities(svc service.ActivityService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "20"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}
		res, err := svc.List(c.UserContext(), limit, offset)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}
