package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/gym-api/internal/model/member"
	"github.com/deppfellow/gym-api/internal/server"
)

// MemberService is the business API behind the member routes.
type MemberService interface {
	ListMembers(ctx context.Context) ([]member.Member, error)
	GetMember(ctx context.Context, id int64) (*member.Member, error)
	CreateMember(ctx context.Context, payload *member.CreateMemberPayload) (*member.Member, error)
	UpdateMember(ctx context.Context, payload *member.UpdateMemberPayload) (*member.Member, error)
	DeleteMember(ctx context.Context, id int64) error
}

type MemberHandler struct {
	Handler
	memberService MemberService
}

func NewMemberHandler(s *server.Server, memberService MemberService) *MemberHandler {
	return &MemberHandler{
		Handler:       NewHandler(s),
		memberService: memberService,
	}
}

func (h *MemberHandler) ListMembers() echo.HandlerFunc {
	return Handle(
		func(c echo.Context, _ *member.ListMembersPayload) ([]member.Member, error) {
			return h.memberService.ListMembers(c.Request().Context())
		},
		http.StatusOK,
	)
}

func (h *MemberHandler) GetMember() echo.HandlerFunc {
	return Handle(
		func(c echo.Context, payload *member.GetMemberPayload) (*member.Member, error) {
			return h.memberService.GetMember(c.Request().Context(), payload.ID)
		},
		http.StatusOK,
	)
}

func (h *MemberHandler) CreateMember() echo.HandlerFunc {
	return Handle(
		func(c echo.Context, payload *member.CreateMemberPayload) (MutationResponse[*member.Member], error) {
			m, err := h.memberService.CreateMember(c.Request().Context(), payload)
			if err != nil {
				return MutationResponse[*member.Member]{}, err
			}
			return MutationResponse[*member.Member]{Message: "Member added successfully", Data: m}, nil
		},
		http.StatusCreated,
	)
}

func (h *MemberHandler) UpdateMember() echo.HandlerFunc {
	return Handle(
		func(c echo.Context, payload *member.UpdateMemberPayload) (MutationResponse[*member.Member], error) {
			m, err := h.memberService.UpdateMember(c.Request().Context(), payload)
			if err != nil {
				return MutationResponse[*member.Member]{}, err
			}
			return MutationResponse[*member.Member]{Message: "Member updated successfully", Data: m}, nil
		},
		http.StatusOK,
	)
}

func (h *MemberHandler) DeleteMember() echo.HandlerFunc {
	return Handle(
		func(c echo.Context, payload *member.DeleteMemberPayload) (MessageResponse, error) {
			if err := h.memberService.DeleteMember(c.Request().Context(), payload.ID); err != nil {
				return MessageResponse{}, err
			}
			return MessageResponse{Message: "Member deleted successfully"}, nil
		},
		http.StatusOK,
	)
}
