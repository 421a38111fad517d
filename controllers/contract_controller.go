package controllers

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"hr-backend/middleware"
	"hr-backend/services"
	"hr-backend/utils"
)

type ContractController struct {
	Contracts *services.ContractService
}

func NewContractController(contracts *services.ContractService) *ContractController {
	return &ContractController{Contracts: contracts}
}

func (cc *ContractController) GetEmployeeContracts(c *gin.Context) {
	employeeID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	contracts, err := cc.Contracts.GetEmployeeContracts(employeeID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, contracts)
}

func (cc *ContractController) CreateContract(c *gin.Context) {
	employeeID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input services.CreateContractInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid contract payload: "+err.Error())
		return
	}

	contract, err := cc.Contracts.CreateContract(middleware.ActorFromContext(c), c.ClientIP(), employeeID, input)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, contract)
}

func (cc *ContractController) DownloadContractPdf(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	path, err := cc.Contracts.ContractPdfPath(id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	c.FileAttachment(path, filepath.Base(path))
}

func (cc *ContractController) InvalidateContract(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	contract, err := cc.Contracts.Invalidate(middleware.ActorFromContext(c), c.ClientIP(), id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, contract)
}
