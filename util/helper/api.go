package helper_util

import (
	"strconv"

	"github.com/gin-gonic/gin"

	argus_errors "github.com/argus-admin/argus/api/errors"
)

func GetPaginationParams(c *gin.Context) (pageNum int, pageSize int, err error) {
	pageNum, err = strconv.Atoi(c.DefaultQuery("pageNum", "1"))
	if err != nil {
		return 0, 0, argus_errors.ErrInvalidPagination
	}
	pageSize, err = strconv.Atoi(c.DefaultQuery("pageSize", "10"))
	if err != nil {
		return 0, 0, argus_errors.ErrInvalidPagination
	}
	if pageNum < 1 || pageSize < 1 || pageSize > 100 {
		return 0, 0, argus_errors.ErrInvalidPagination
	}
	return pageNum, pageSize, nil
}
