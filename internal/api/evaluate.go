// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pwd-strength/pkg/strength"
)

type evaluateApi struct {
	evaluator *strength.Evaluator
	locale    *strength.Locale
}

func (e *evaluateApi) evaluatePassword(c *gin.Context) {
	locale := strength.Negotiate(c.GetHeader("Accept-Language"), e.locale)

	var req evaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err).SetType(gin.ErrorTypeBind)
		c.JSON(http.StatusBadRequest, errorResponse{Error: locale.InvalidInput()})
		return
	}

	res := e.evaluator.Evaluate(req.Password)
	c.JSON(http.StatusOK, locale.Render(res))
}

// RegisterEvaluateApi mounts the evaluation endpoint on group.
func RegisterEvaluateApi(group *gin.RouterGroup, evaluator *strength.Evaluator, locale *strength.Locale) {
	e := &evaluateApi{evaluator: evaluator, locale: locale}

	group.POST("/password/evaluate", e.evaluatePassword)
}
