package handlers

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"

	"debtdraft-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// LetterHandler handles HTTP requests for demand letters
type LetterHandler struct {
	letterService *service.LetterService
}

// NewLetterHandler creates a new letter handler
func NewLetterHandler(letterService *service.LetterService) *LetterHandler {
	return &LetterHandler{
		letterService: letterService,
	}
}

// GenerateLetter handles POST /api/cases/:id/letters
func (h *LetterHandler) GenerateLetter(c *gin.Context) {
	idStr := c.Param("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid case ID format",
			},
		})
		return
	}

	var reqBody struct {
		RefineInstructions *string `json:"refine_instructions"`
	}
	if err := c.ShouldBindJSON(&reqBody); err != nil && err != io.EOF {
		// JSON is optional, ignore binding errors if body is empty
	}

	serviceReq := service.GenerateLetterRequest{
		CaseID:             id,
		RefineInstructions: reqBody.RefineInstructions,
	}

	// Create job (synchronous, fast)
	result, err := h.letterService.GenerateLetter(c.Request.Context(), serviceReq)
	if err != nil {
		status := http.StatusInternalServerError
		code := "GENERATION_FAILED"
		switch {
		case errors.Is(err, service.ErrCaseNotFound):
			status = http.StatusNotFound
			code = "NOT_FOUND"
		case errors.Is(err, service.ErrInvalidCaseData):
			status = http.StatusUnprocessableEntity
			code = "INVALID_CASE_DATA"
		}
		c.JSON(status, gin.H{
			"success": false,
			"error": gin.H{
				"code":    code,
				"message": err.Error(),
			},
		})
		return
	}

	// Spawn background goroutine for actual processing
	// Use background context (not request context) to avoid cancellation
	go func() {
		bgCtx := context.Background()
		if err := h.letterService.ProcessLetter(bgCtx, result.JobID, reqBody.RefineInstructions); err != nil {
			// Error is logged and stored in job.ErrorMessage
			// No need to return to HTTP client (they'll poll status)
			log.Printf("Generation job %s failed: %v", result.JobID, err)
		}
	}()

	// Return immediately (within 100ms)
	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"data": gin.H{
			"job_id":  result.JobID,
			"status":  "pending",
			"message": "Generation job created. Poll /api/jobs/:id for updates.",
		},
	})
}

// GetJobStatus handles GET /api/jobs/:id
func (h *LetterHandler) GetJobStatus(c *gin.Context) {
	idStr := c.Param("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid job ID format",
			},
		})
		return
	}

	result, err := h.letterService.GetJobStatus(c.Request.Context(), service.GetJobStatusRequest{JobID: id})
	if err != nil {
		if errors.Is(err, service.ErrJobNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": "Generation job not found",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "RETRIEVAL_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.Job,
	})
}

// GetLetter handles GET /api/letters/:id
func (h *LetterHandler) GetLetter(c *gin.Context) {
	idStr := c.Param("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid letter ID format",
			},
		})
		return
	}

	result, err := h.letterService.GetLetter(c.Request.Context(), service.GetLetterRequest{LetterID: id})
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Demand letter not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.Letter,
	})
}

// ListLetters handles GET /api/cases/:id/letters
func (h *LetterHandler) ListLetters(c *gin.Context) {
	idStr := c.Param("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid case ID format",
			},
		})
		return
	}

	result, err := h.letterService.ListLetters(c.Request.Context(), service.ListLettersRequest{CaseID: id})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "LIST_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.Letters,
	})
}

// UpdateLetterRequest represents the request body for editing a letter
type UpdateLetterRequest struct {
	Body string `json:"body" binding:"required"`
}

// UpdateLetter handles PUT /api/letters/:id
func (h *LetterHandler) UpdateLetter(c *gin.Context) {
	idStr := c.Param("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid letter ID format",
			},
		})
		return
	}

	var req UpdateLetterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	result, err := h.letterService.UpdateLetter(c.Request.Context(), service.UpdateLetterRequest{
		LetterID: id,
		Body:     req.Body,
	})
	if err != nil {
		if errors.Is(err, service.ErrLetterNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": "Demand letter not found",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPDATE_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"letter": result.Letter,
			"report": result.Report,
		},
	})
}

// ValidateLetterRequest represents the request body for an ad-hoc validation
type ValidateLetterRequest struct {
	Body *string `json:"body"`
}

// ValidateLetter handles POST /api/letters/:id/validate
func (h *LetterHandler) ValidateLetter(c *gin.Context) {
	idStr := c.Param("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid letter ID format",
			},
		})
		return
	}

	var req ValidateLetterRequest
	if err := c.ShouldBindJSON(&req); err != nil && err != io.EOF {
		// JSON is optional, ignore binding errors if body is empty
	}

	result, err := h.letterService.ValidateLetter(c.Request.Context(), service.ValidateLetterRequest{
		LetterID: id,
		Body:     req.Body,
	})
	if err != nil {
		if errors.Is(err, service.ErrLetterNotFound) || errors.Is(err, service.ErrCaseNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": err.Error(),
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.Report,
	})
}

// SubmitForReview handles POST /api/letters/:id/submit
func (h *LetterHandler) SubmitForReview(c *gin.Context) {
	idStr := c.Param("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid letter ID format",
			},
		})
		return
	}

	result, err := h.letterService.SubmitForReview(c.Request.Context(), service.SubmitForReviewRequest{LetterID: id})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLetterNotFound), errors.Is(err, service.ErrCaseNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": err.Error(),
				},
			})
		case errors.Is(err, service.ErrBelowThreshold):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "BELOW_THRESHOLD",
					"message": "Letter does not meet the compliance threshold for review",
				},
				"data": gin.H{
					"report": result.Report,
				},
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "SUBMIT_FAILED",
					"message": err.Error(),
				},
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"letter": result.Letter,
			"report": result.Report,
		},
	})
}

// ReviewLetterRequest represents the request body for a review decision
type ReviewLetterRequest struct {
	ReviewerID string  `json:"reviewer_id" binding:"required"`
	Action     string  `json:"action" binding:"required"`
	Comment    *string `json:"comment"`
}

// ReviewLetter handles POST /api/letters/:id/review
func (h *LetterHandler) ReviewLetter(c *gin.Context) {
	idStr := c.Param("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid letter ID format",
			},
		})
		return
	}

	var req ReviewLetterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	reviewerID, err := uuid.Parse(req.ReviewerID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REVIEWER_ID",
				"message": "Invalid reviewer_id format",
			},
		})
		return
	}

	result, err := h.letterService.ReviewLetter(c.Request.Context(), service.ReviewLetterRequest{
		LetterID:   id,
		ReviewerID: reviewerID,
		Action:     service.ReviewAction(req.Action),
		Comment:    req.Comment,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLetterNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": "Demand letter not found",
				},
			})
		case errors.Is(err, service.ErrNotReviewable):
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_REVIEWABLE",
					"message": "Letter is not pending review",
				},
			})
		case errors.Is(err, service.ErrInvalidReviewAction):
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_ACTION",
					"message": "action must be approve or reject",
				},
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "REVIEW_FAILED",
					"message": err.Error(),
				},
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.Letter,
	})
}

// RequiredDisclosures handles GET /api/cases/:id/disclosures
func (h *LetterHandler) RequiredDisclosures(c *gin.Context) {
	idStr := c.Param("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid case ID format",
			},
		})
		return
	}

	result, err := h.letterService.RequiredDisclosures(c.Request.Context(), service.RequiredDisclosuresRequest{CaseID: id})
	if err != nil {
		if errors.Is(err, service.ErrCaseNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": "Collection case not found",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DISCLOSURES_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"disclosures": result.Disclosures,
			"complete":    result.Complete,
		},
	})
}
