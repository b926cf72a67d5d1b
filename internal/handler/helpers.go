package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

type pageParams struct {
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

func parsePageParams(c *gin.Context) pageParams {
	params := pageParams{Page: 1, PageSize: 20}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		params.Page = page
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		params.PageSize = limit
	}
	params.SortBy = c.Query("sort")
	params.SortOrder = c.Query("order")
	return params
}

func searchQuery(c *gin.Context) string {
	return strings.TrimSpace(c.Query("search"))
}
