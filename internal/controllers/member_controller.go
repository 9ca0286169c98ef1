package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"tourhub/internal/members"
	"tourhub/internal/models"
	"tourhub/internal/store"
)

// bulkMembersRequest carries either structured members or a pasted text
// blob with one "name, email, phone, role" line per member.
type bulkMembersRequest struct {
	Members []models.MemberInput `json:"members"`
	Text    string               `json:"text"`
}

type memberStatusRequest struct {
	Status models.MemberStatus `json:"status" binding:"required"`
}

// ListMembers handles GET /members.
func (ctl *Controller) ListMembers(c *gin.Context) {
	var f store.MemberFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		respondError(c, invalidBody(err))
		return
	}
	out, err := ctl.store.FetchGroupMembers(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"members": out})
}

// BulkAddMembers handles POST /groups/:id/members/bulk.
func (ctl *Controller) BulkAddMembers(c *gin.Context) {
	var req bulkMembersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, invalidBody(err))
		return
	}
	ctx := c.Request.Context()
	groupID := c.Param("id")

	if strings.TrimSpace(req.Text) != "" {
		res, err := ctl.travel.ImportMembers(ctx, groupID, req.Text)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, res)
		return
	}

	created, err := ctl.travel.AddMembers(ctx, groupID, req.Members)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"members": created, "skipped": []members.RowError{}})
}

// UpdateMemberStatus handles PATCH /members/:id/status.
func (ctl *Controller) UpdateMemberStatus(c *gin.Context) {
	var req memberStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, invalidBody(err))
		return
	}
	m, err := ctl.travel.UpdateMemberStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"member": m})
}

func (ctl *Controller) DeleteMember(c *gin.Context) {
	if err := ctl.travel.DeleteMember(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Member removed"})
}
