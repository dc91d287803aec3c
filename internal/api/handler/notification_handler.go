package handler

import (
	"Campus/internal/api/dto"
	"Campus/internal/pkg/response"
	"Campus/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notifyService service.NotificationService
}

func NewNotificationHandler(notifyService service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifyService: notifyService}
}

// List 分页获取通知列表
func (s *NotificationHandler) List(c *gin.Context) {
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "20"), 10, 64)
	offset, _ := strconv.ParseInt(c.DefaultQuery("offset", "0"), 10, 64)
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	userID := c.GetUint64("userID")

	res, err := s.notifyService.List(c, userID, limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// GetUnreadCount 获取未读通知数
func (s *NotificationHandler) GetUnreadCount(c *gin.Context) {
	userID := c.GetUint64("userID")

	count, err := s.notifyService.GetUnreadCount(c, userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, &dto.UnreadCountDTO{UnreadCount: count})
}

// MarkRead 标记单条通知已读
func (s *NotificationHandler) MarkRead(c *gin.Context) {
	var req dto.NotificationReadReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	userID := c.GetUint64("userID")

	if err := s.notifyService.MarkRead(c, userID, req.ID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// MarkAllRead 全部标记已读
func (s *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID := c.GetUint64("userID")

	if err := s.notifyService.MarkAllRead(c, userID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// Delete 删除单条通知
func (s *NotificationHandler) Delete(c *gin.Context) {
	userID := c.GetUint64("userID")

	if err := s.notifyService.Delete(c, userID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
