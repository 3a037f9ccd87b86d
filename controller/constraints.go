package controller

import (
	"net/http"

	"github.com/aurum-labs/jewel-studio/common"
	"github.com/gin-gonic/gin"
)

type validateDesignRequest struct {
	Design      common.DesignMeasurements `json:"design"`
	Constraints *common.DesignConstraints `json:"constraints"`
	JewelryType string                    `json:"type" binding:"omitempty,jewelry_type"`
}

// ValidateDesign checks a design against manufacturing limits. Without
// explicit constraints the jewelry type's defaults apply.
func ValidateDesign(c *gin.Context) {
	var request validateDesignRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	jewelryType := common.NormalizeJewelryType(request.JewelryType)
	constraints := common.DesignConstraints{}
	if request.Constraints != nil {
		constraints = *request.Constraints
	} else {
		paramsType := jewelryType
		if paramsType == "" && common.IsRingDesign("", request.Design.Prompt) {
			paramsType = common.JewelryTypeRing
		}
		if params, ok := common.GetJewelryParams(paramsType); ok {
			constraints.MinThickness = params.MinThickness
			constraints.MaxWeight = params.MaxWeight
		}
	}
	c.JSON(http.StatusOK, common.ValidateDesign(request.Design, jewelryType, constraints))
}
