package handler

import (
	"pensionfund/internal/domain/entity"
	"pensionfund/internal/usecase"
)

// toUserResponse strips credential material and internal fields from the
// account before it leaves the API.
func toUserResponse(user *entity.User) userResponse {
	resp := userResponse{
		ID:       user.ID.String(),
		Email:    user.Email,
		FullName: user.FullName,
		Role:     user.Role.String(),
	}
	if user.MemberID != nil {
		id := user.MemberID.String()
		resp.MemberID = &id
	}

	return resp
}

func toTokenPairResponse(output *usecase.TokenPairOutput) tokenPairResponse {
	return tokenPairResponse{
		AccessToken:  output.AccessToken,
		RefreshToken: output.RefreshToken,
		User:         toUserResponse(output.User),
	}
}
