package handlers

import (
	"errors"
	"net/http"
	"time"

	"debtdraft-backend/models"
	"debtdraft-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CaseHandler handles HTTP requests for collection cases
type CaseHandler struct {
	caseService *service.CaseService
}

// NewCaseHandler creates a new case handler
func NewCaseHandler(caseService *service.CaseService) *CaseHandler {
	return &CaseHandler{
		caseService: caseService,
	}
}

// CreateCaseRequest represents the request body for creating a case
type CreateCaseRequest struct {
	UserID           string  `json:"user_id" binding:"required"`
	DebtorName       string  `json:"debtor_name" binding:"required"`
	DebtorAddress    *string `json:"debtor_address"`
	StateCode        string  `json:"state_code" binding:"required"`
	CreditorName     string  `json:"creditor_name" binding:"required"`
	OriginalCreditor *string `json:"original_creditor"`
	AccountNumber    *string `json:"account_number"`
	PrincipalAmount  float64 `json:"principal_amount"`
	InterestAmount   float64 `json:"interest_amount"`
	FeesAmount       float64 `json:"fees_amount"`
	DebtOriginDate   string  `json:"debt_origin_date" binding:"required"`
}

// CreateCase handles POST /api/cases
func (h *CaseHandler) CreateCase(c *gin.Context) {
	var req CreateCaseRequest
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

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_USER_ID",
				"message": "Invalid user_id format",
			},
		})
		return
	}

	originDate, err := time.Parse("2006-01-02", req.DebtOriginDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_DATE",
				"message": "debt_origin_date must be YYYY-MM-DD",
			},
		})
		return
	}

	collectionCase := &models.CollectionCase{
		DebtorName:       req.DebtorName,
		DebtorAddress:    req.DebtorAddress,
		StateCode:        req.StateCode,
		CreditorName:     req.CreditorName,
		OriginalCreditor: req.OriginalCreditor,
		AccountNumber:    req.AccountNumber,
		PrincipalAmount:  req.PrincipalAmount,
		InterestAmount:   req.InterestAmount,
		FeesAmount:       req.FeesAmount,
		DebtOriginDate:   originDate,
	}

	serviceReq := service.CreateCaseRequest{
		UserID: userID,
		Case:   collectionCase,
	}

	result, err := h.caseService.CreateCase(c.Request.Context(), serviceReq)
	if err != nil {
		status := http.StatusInternalServerError
		code := "CREATE_FAILED"
		if errors.Is(err, service.ErrInvalidCaseData) || errors.Is(err, service.ErrNegativeAmount) {
			status = http.StatusBadRequest
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

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    result.Case,
	})
}

// GetCase handles GET /api/cases/:id
func (h *CaseHandler) GetCase(c *gin.Context) {
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

	result, err := h.caseService.GetCase(c.Request.Context(), service.GetCaseRequest{ID: id})
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Collection case not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.Case,
	})
}

// UpdateCaseRequest represents the request body for updating a case
type UpdateCaseRequest struct {
	Status           string   `json:"status"`
	DebtorName       string   `json:"debtor_name"`
	DebtorAddress    *string  `json:"debtor_address"`
	StateCode        string   `json:"state_code"`
	CreditorName     string   `json:"creditor_name"`
	OriginalCreditor *string  `json:"original_creditor"`
	AccountNumber    *string  `json:"account_number"`
	PrincipalAmount  *float64 `json:"principal_amount"`
	InterestAmount   *float64 `json:"interest_amount"`
	FeesAmount       *float64 `json:"fees_amount"`
	DebtOriginDate   *string  `json:"debt_origin_date"`
}

// UpdateCase handles PUT /api/cases/:id
func (h *CaseHandler) UpdateCase(c *gin.Context) {
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

	getResult, err := h.caseService.GetCase(c.Request.Context(), service.GetCaseRequest{ID: id})
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Collection case not found",
			},
		})
		return
	}

	collectionCase := getResult.Case

	var req UpdateCaseRequest
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

	if req.Status != "" {
		collectionCase.Status = models.CaseStatus(req.Status)
	}
	if req.DebtorName != "" {
		collectionCase.DebtorName = req.DebtorName
	}
	if req.DebtorAddress != nil {
		collectionCase.DebtorAddress = req.DebtorAddress
	}
	if req.StateCode != "" {
		collectionCase.StateCode = req.StateCode
	}
	if req.CreditorName != "" {
		collectionCase.CreditorName = req.CreditorName
	}
	if req.OriginalCreditor != nil {
		collectionCase.OriginalCreditor = req.OriginalCreditor
	}
	if req.AccountNumber != nil {
		collectionCase.AccountNumber = req.AccountNumber
	}
	if req.PrincipalAmount != nil {
		collectionCase.PrincipalAmount = *req.PrincipalAmount
	}
	if req.InterestAmount != nil {
		collectionCase.InterestAmount = *req.InterestAmount
	}
	if req.FeesAmount != nil {
		collectionCase.FeesAmount = *req.FeesAmount
	}
	if req.DebtOriginDate != nil {
		originDate, err := time.Parse("2006-01-02", *req.DebtOriginDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_DATE",
					"message": "debt_origin_date must be YYYY-MM-DD",
				},
			})
			return
		}
		collectionCase.DebtOriginDate = originDate
	}

	updateResult, err := h.caseService.UpdateCase(c.Request.Context(), service.UpdateCaseRequest{Case: collectionCase})
	if err != nil {
		status := http.StatusInternalServerError
		code := "UPDATE_FAILED"
		if errors.Is(err, service.ErrInvalidCaseData) || errors.Is(err, service.ErrNegativeAmount) {
			status = http.StatusBadRequest
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

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    updateResult.Case,
	})
}

// ListCases handles GET /api/cases?user_id=...&status=...
func (h *CaseHandler) ListCases(c *gin.Context) {
	userIDStr := c.Query("user_id")
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_USER_ID",
				"message": "user_id query parameter is required",
			},
		})
		return
	}

	var status *models.CaseStatus
	if statusStr := c.Query("status"); statusStr != "" {
		s := models.CaseStatus(statusStr)
		status = &s
	}

	result, err := h.caseService.ListCases(c.Request.Context(), service.ListCasesRequest{
		UserID: userID,
		Status: status,
	})
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
		"data":    result.Cases,
	})
}

// CloseCase handles POST /api/cases/:id/close
func (h *CaseHandler) CloseCase(c *gin.Context) {
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

	_, err = h.caseService.CloseCase(c.Request.Context(), service.CloseCaseRequest{ID: id})
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
				"code":    "CLOSE_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"id":     id,
			"status": models.CaseStatusClosed,
		},
	})
}
