// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package api

type evaluateRequest struct {
	Password string `json:"password" binding:"required"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type healthResponse struct {
	Status   string `json:"status"`
	Denylist int    `json:"denylist"`
}
