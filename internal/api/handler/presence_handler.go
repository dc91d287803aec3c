package handler

import (
	"Campus/internal/api/dto"
	"Campus/internal/pkg/response"
	"Campus/internal/service"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

type PresenceHandler struct {
	presenceService service.PresenceService
}

func NewPresenceHandler(presenceService service.PresenceService) *PresenceHandler {
	return &PresenceHandler{presenceService: presenceService}
}

// GetPresence 查询单个用户在线状态
func (s *PresenceHandler) GetPresence(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil || userID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	res, err := s.presenceService.GetPresence(c, userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// GetOnlineCount 统计一组用户的在线人数，ids 为逗号分隔的用户 ID 列表
func (s *PresenceHandler) GetOnlineCount(c *gin.Context) {
	raw := c.Query("ids")
	if raw == "" {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	var userIDs []uint64
	for _, part := range strings.Split(raw, ",") {
		id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 64)
		if err != nil || id == 0 {
			response.Error(c, service.ErrParamInvalid)
			return
		}
		userIDs = append(userIDs, id)
	}

	count, err := s.presenceService.CountOnline(c, userIDs)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, &dto.PresenceCountDTO{OnlineCount: count})
}
