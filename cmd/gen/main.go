package main

import (
	"pensionfund/internal/infra/persistence/model"

	"gorm.io/gen"
)

func main() {
	models := []any{
		model.UserModel{},
		model.CredentialModel{},
		model.RefreshTokenModel{},
		model.PasswordResetTokenModel{},
		model.MemberModel{},
		model.ContributionModel{},
		model.ClaimModel{},
		model.BeneficiaryModel{},
	}

	gen := gen.NewGenerator(gen.Config{
		OutPath: "./internal/infra/persistence/postgres/query",
	})

	gen.ApplyBasic(models...)

	gen.Execute()
}
