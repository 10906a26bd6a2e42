package impl

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"pensionfund/config"
	"pensionfund/internal/domain/entity"
	"pensionfund/internal/domain/repository"
	"pensionfund/internal/domain/service"
	"pensionfund/internal/infra/auth"
	"pensionfund/internal/infra/metrics"

	"github.com/google/uuid"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig(maxActiveSessions int) *config.Config {
	cfg := &config.Config{}
	cfg.SecretKey.Access = "impl-test-access-secret"
	cfg.SecretKey.Refresh = "impl-test-refresh-secret"
	cfg.SecretKey.Issuer = "pensionfund-test"
	cfg.Auth = &config.AuthConfig{
		BcryptCost:        4,
		AccessTokenTTL:    time.Minute * 15,
		RefreshTokenTTL:   time.Hour,
		MaxActiveSessions: maxActiveSessions,
	}
	cfg.PasswordStrength = &config.PasswordStrengthConfig{MinLength: 8, MaxLength: 128}
	cfg.PasswordReset = &config.PasswordResetConfig{
		TokenTTL:     time.Hour,
		MaxPerWindow: 3,
		Window:       time.Hour,
	}

	return cfg
}

func newTestTokenService(cfg *config.Config) service.TokenService {
	tokenService, err := auth.NewJWTService(cfg)
	if err != nil {
		panic(err)
	}

	return tokenService
}

// --- In-memory fakes ---
//
// The fakes below back the impl tests with map-based state so the full
// transaction flow runs without a database.

type fakeStore struct {
	mu            sync.Mutex
	users         map[uuid.UUID]*entity.User
	credentials   map[uuid.UUID]*entity.Credential // keyed by user ID
	refreshTokens map[uuid.UUID]*entity.RefreshToken
	resetTokens   map[uuid.UUID]*entity.PasswordResetToken
	members       map[uuid.UUID]*entity.Member
	contributions map[uuid.UUID]*entity.Contribution
	claims        map[uuid.UUID]*entity.Claim
	beneficiaries map[uuid.UUID]*entity.Beneficiary
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:         make(map[uuid.UUID]*entity.User),
		credentials:   make(map[uuid.UUID]*entity.Credential),
		refreshTokens: make(map[uuid.UUID]*entity.RefreshToken),
		resetTokens:   make(map[uuid.UUID]*entity.PasswordResetToken),
		members:       make(map[uuid.UUID]*entity.Member),
		contributions: make(map[uuid.UUID]*entity.Contribution),
		claims:        make(map[uuid.UUID]*entity.Claim),
		beneficiaries: make(map[uuid.UUID]*entity.Beneficiary),
	}
}

// fakeTxManager runs the callback directly against the shared store. Real
// rollback semantics are not simulated; error paths are asserted instead.
type fakeTxManager struct {
	store *fakeStore
}

func (m *fakeTxManager) Execute(_ context.Context, fn func(repository.RepositoryFactory) error) error {
	return fn(&fakeFactory{store: m.store})
}

type fakeFactory struct {
	store *fakeStore
}

func (f *fakeFactory) UserRepo() repository.UserRepository             { return &fakeUserRepo{f.store} }
func (f *fakeFactory) CredentialRepo() repository.CredentialRepository { return &fakeCredentialRepo{f.store} }
func (f *fakeFactory) RefreshTokenRepo() repository.RefreshTokenRepository {
	return &fakeRefreshTokenRepo{f.store}
}
func (f *fakeFactory) ResetTokenRepo() repository.ResetTokenRepository { return &fakeResetTokenRepo{f.store} }
func (f *fakeFactory) MemberRepo() repository.MemberRepository         { return &fakeMemberRepo{f.store} }
func (f *fakeFactory) ContributionRepo() repository.ContributionRepository {
	return &fakeContributionRepo{f.store}
}
func (f *fakeFactory) ClaimRepo() repository.ClaimRepository { return &fakeClaimRepo{f.store} }
func (f *fakeFactory) BeneficiaryRepo() repository.BeneficiaryRepository {
	return &fakeBeneficiaryRepo{f.store}
}

// --- User ---

type fakeUserRepo struct{ store *fakeStore }

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if user, ok := r.store.users[id]; ok {
		copied := *user

		return &copied, nil
	}

	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, user := range r.store.users {
		if user.Email == email {
			copied := *user

			return &copied, nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	copied := *user
	r.store.users[user.ID] = &copied

	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.users[user.ID]; !ok {
		return repository.ErrUserNotFound
	}
	copied := *user
	r.store.users[user.ID] = &copied

	return nil
}

func (r *fakeUserRepo) UpdateLastLogin(_ context.Context, id uuid.UUID, at time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	user, ok := r.store.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	user.LastLogin = &at

	return nil
}

func (r *fakeUserRepo) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	user, ok := r.store.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	user.IsActive = active

	return nil
}

// --- Credential ---

type fakeCredentialRepo struct{ store *fakeStore }

func (r *fakeCredentialRepo) Create(_ context.Context, cred *entity.Credential) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if cred.ID == uuid.Nil {
		cred.ID = uuid.New()
	}
	copied := *cred
	r.store.credentials[cred.UserID] = &copied

	return nil
}

func (r *fakeCredentialRepo) FindByUserID(_ context.Context, userID uuid.UUID) (*entity.Credential, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if cred, ok := r.store.credentials[userID]; ok {
		copied := *cred

		return &copied, nil
	}

	return nil, repository.ErrCredentialNotFound
}

func (r *fakeCredentialRepo) UpdateHash(_ context.Context, userID uuid.UUID, newHash string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cred, ok := r.store.credentials[userID]
	if !ok {
		return repository.ErrCredentialNotFound
	}
	cred.PasswordHash = newHash
	cred.UpdatedAt = time.Now()

	return nil
}

// --- RefreshToken ---

type fakeRefreshTokenRepo struct{ store *fakeStore }

func (r *fakeRefreshTokenRepo) Create(_ context.Context, token *entity.RefreshToken) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	token.CreatedAt = time.Now()
	copied := *token
	r.store.refreshTokens[token.ID] = &copied

	return nil
}

func (r *fakeRefreshTokenRepo) FindByHash(_ context.Context, tokenHash string) (*entity.RefreshToken, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, token := range r.store.refreshTokens {
		if token.TokenHash == tokenHash {
			if token.ExpiresAt.Before(time.Now()) {
				return nil, repository.ErrRefreshTokenExpired
			}
			copied := *token

			return &copied, nil
		}
	}

	return nil, repository.ErrRefreshTokenNotFound
}

func (r *fakeRefreshTokenRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.RefreshToken, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	token, ok := r.store.refreshTokens[id]
	if !ok {
		return nil, repository.ErrRefreshTokenNotFound
	}
	if token.ExpiresAt.Before(time.Now()) {
		return nil, repository.ErrRefreshTokenExpired
	}
	copied := *token

	return &copied, nil
}

func (r *fakeRefreshTokenRepo) FindByUserID(_ context.Context, userID uuid.UUID) ([]*entity.RefreshToken, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var tokens []*entity.RefreshToken
	for _, token := range r.store.refreshTokens {
		if token.UserID == userID && token.ExpiresAt.After(time.Now()) {
			copied := *token
			tokens = append(tokens, &copied)
		}
	}

	return tokens, nil
}

func (r *fakeRefreshTokenRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.refreshTokens[id]; !ok {
		return repository.ErrRefreshTokenNotFound
	}
	delete(r.store.refreshTokens, id)

	return nil
}

func (r *fakeRefreshTokenRepo) DeleteByHash(_ context.Context, tokenHash string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for id, token := range r.store.refreshTokens {
		if token.TokenHash == tokenHash {
			delete(r.store.refreshTokens, id)

			return nil
		}
	}

	return repository.ErrRefreshTokenNotFound
}

func (r *fakeRefreshTokenRepo) DeleteByUserID(_ context.Context, userID uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for id, token := range r.store.refreshTokens {
		if token.UserID == userID {
			delete(r.store.refreshTokens, id)
		}
	}

	return nil
}

func (r *fakeRefreshTokenRepo) DeleteExpired(_ context.Context) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	removed := 0
	for id, token := range r.store.refreshTokens {
		if token.ExpiresAt.Before(time.Now()) {
			delete(r.store.refreshTokens, id)
			removed++
		}
	}

	return removed, nil
}

func (r *fakeRefreshTokenRepo) CountActiveByUserID(_ context.Context, userID uuid.UUID) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	count := 0
	for _, token := range r.store.refreshTokens {
		if token.UserID == userID && token.ExpiresAt.After(time.Now()) {
			count++
		}
	}

	return count, nil
}

func (r *fakeRefreshTokenRepo) CountActive(_ context.Context) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	count := 0
	for _, token := range r.store.refreshTokens {
		if token.ExpiresAt.After(time.Now()) {
			count++
		}
	}

	return count, nil
}

// --- ResetToken ---

type fakeResetTokenRepo struct{ store *fakeStore }

func (r *fakeResetTokenRepo) Create(_ context.Context, token *entity.PasswordResetToken) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	token.CreatedAt = time.Now()
	copied := *token
	r.store.resetTokens[token.ID] = &copied

	return nil
}

func (r *fakeResetTokenRepo) FindByHash(_ context.Context, tokenHash string) (*entity.PasswordResetToken, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, token := range r.store.resetTokens {
		if token.TokenHash == tokenHash && token.ExpiresAt.After(time.Now()) {
			copied := *token

			return &copied, nil
		}
	}

	return nil, repository.ErrResetTokenNotFound
}

func (r *fakeResetTokenRepo) DeleteByUserID(_ context.Context, userID uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for id, token := range r.store.resetTokens {
		if token.UserID == userID {
			delete(r.store.resetTokens, id)
		}
	}

	return nil
}

func (r *fakeResetTokenRepo) CountRecentByUserID(_ context.Context, userID uuid.UUID, since time.Time) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	count := 0
	for _, token := range r.store.resetTokens {
		if token.UserID == userID && token.CreatedAt.After(since) {
			count++
		}
	}

	return count, nil
}

func (r *fakeResetTokenRepo) DeleteExpired(_ context.Context) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	removed := 0
	for id, token := range r.store.resetTokens {
		if token.ExpiresAt.Before(time.Now()) {
			delete(r.store.resetTokens, id)
			removed++
		}
	}

	return removed, nil
}

// --- Member ---

type fakeMemberRepo struct{ store *fakeStore }

func (r *fakeMemberRepo) Create(_ context.Context, member *entity.Member) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, existing := range r.store.members {
		if existing.MemberNumber == member.MemberNumber {
			return repository.ErrDuplicateMemberNumber
		}
	}
	if member.ID == uuid.Nil {
		member.ID = uuid.New()
	}
	member.CreatedAt = time.Now()
	member.UpdatedAt = member.CreatedAt
	copied := *member
	r.store.members[member.ID] = &copied

	return nil
}

func (r *fakeMemberRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Member, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if member, ok := r.store.members[id]; ok {
		copied := *member

		return &copied, nil
	}

	return nil, repository.ErrMemberNotFound
}

func (r *fakeMemberRepo) FindByMemberNumber(_ context.Context, number string) (*entity.Member, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, member := range r.store.members {
		if member.MemberNumber == number {
			copied := *member

			return &copied, nil
		}
	}

	return nil, repository.ErrMemberNotFound
}

func (r *fakeMemberRepo) List(_ context.Context, filter repository.MemberFilter) ([]*entity.Member, int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var matched []*entity.Member
	for _, member := range r.store.members {
		if filter.Status != "" && member.Status != filter.Status {
			continue
		}
		if filter.Employer != "" && member.Employer != filter.Employer {
			continue
		}
		copied := *member
		matched = append(matched, &copied)
	}
	total := len(matched)
	if filter.Offset >= len(matched) {
		return nil, total, nil
	}
	matched = matched[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}

	return matched, total, nil
}

func (r *fakeMemberRepo) Update(_ context.Context, member *entity.Member) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.members[member.ID]; !ok {
		return repository.ErrMemberNotFound
	}
	copied := *member
	r.store.members[member.ID] = &copied

	return nil
}

func (r *fakeMemberRepo) CountByStatus(_ context.Context, status entity.MemberStatus) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	count := 0
	for _, member := range r.store.members {
		if member.Status == status {
			count++
		}
	}

	return count, nil
}

// --- Contribution ---

type fakeContributionRepo struct{ store *fakeStore }

func (r *fakeContributionRepo) Create(_ context.Context, contribution *entity.Contribution) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if contribution.ID == uuid.Nil {
		contribution.ID = uuid.New()
	}
	contribution.CreatedAt = time.Now()
	copied := *contribution
	r.store.contributions[contribution.ID] = &copied

	return nil
}

func (r *fakeContributionRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Contribution, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if contribution, ok := r.store.contributions[id]; ok {
		copied := *contribution

		return &copied, nil
	}

	return nil, repository.ErrContributionNotFound
}

func (r *fakeContributionRepo) ListByMemberID(_ context.Context, memberID uuid.UUID, offset, limit int) ([]*entity.Contribution, int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var matched []*entity.Contribution
	for _, contribution := range r.store.contributions {
		if contribution.MemberID == memberID {
			copied := *contribution
			matched = append(matched, &copied)
		}
	}
	total := len(matched)
	if offset >= len(matched) {
		return nil, total, nil
	}
	matched = matched[offset:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}

	return matched, total, nil
}

func (r *fakeContributionRepo) SumByMemberID(_ context.Context, memberID uuid.UUID) (float64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var sum float64
	for _, contribution := range r.store.contributions {
		if contribution.MemberID == memberID {
			sum += contribution.Total()
		}
	}

	return sum, nil
}

func (r *fakeContributionRepo) SumAll(_ context.Context) (float64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var sum float64
	for _, contribution := range r.store.contributions {
		sum += contribution.Total()
	}

	return sum, nil
}

// --- Claim ---

type fakeClaimRepo struct{ store *fakeStore }

func (r *fakeClaimRepo) Create(_ context.Context, claim *entity.Claim) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if claim.ID == uuid.Nil {
		claim.ID = uuid.New()
	}
	claim.CreatedAt = time.Now()
	claim.UpdatedAt = claim.CreatedAt
	copied := *claim
	r.store.claims[claim.ID] = &copied

	return nil
}

func (r *fakeClaimRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Claim, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if claim, ok := r.store.claims[id]; ok {
		copied := *claim

		return &copied, nil
	}

	return nil, repository.ErrClaimNotFound
}

func (r *fakeClaimRepo) List(_ context.Context, filter repository.ClaimFilter) ([]*entity.Claim, int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var matched []*entity.Claim
	for _, claim := range r.store.claims {
		if filter.MemberID != nil && claim.MemberID != *filter.MemberID {
			continue
		}
		if filter.Status != "" && claim.Status != filter.Status {
			continue
		}
		copied := *claim
		matched = append(matched, &copied)
	}
	total := len(matched)
	if filter.Offset >= len(matched) {
		return nil, total, nil
	}
	matched = matched[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}

	return matched, total, nil
}

func (r *fakeClaimRepo) Update(_ context.Context, claim *entity.Claim) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.claims[claim.ID]; !ok {
		return repository.ErrClaimNotFound
	}
	copied := *claim
	r.store.claims[claim.ID] = &copied

	return nil
}

func (r *fakeClaimRepo) CountByStatus(_ context.Context, status entity.ClaimStatus) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	count := 0
	for _, claim := range r.store.claims {
		if claim.Status == status {
			count++
		}
	}

	return count, nil
}

// --- Beneficiary ---

type fakeBeneficiaryRepo struct{ store *fakeStore }

func (r *fakeBeneficiaryRepo) Create(_ context.Context, beneficiary *entity.Beneficiary) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if beneficiary.ID == uuid.Nil {
		beneficiary.ID = uuid.New()
	}
	beneficiary.CreatedAt = time.Now()
	beneficiary.UpdatedAt = beneficiary.CreatedAt
	copied := *beneficiary
	r.store.beneficiaries[beneficiary.ID] = &copied

	return nil
}

func (r *fakeBeneficiaryRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Beneficiary, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if beneficiary, ok := r.store.beneficiaries[id]; ok {
		copied := *beneficiary

		return &copied, nil
	}

	return nil, repository.ErrBeneficiaryNotFound
}

func (r *fakeBeneficiaryRepo) ListByMemberID(_ context.Context, memberID uuid.UUID) ([]*entity.Beneficiary, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var matched []*entity.Beneficiary
	for _, beneficiary := range r.store.beneficiaries {
		if beneficiary.MemberID == memberID {
			copied := *beneficiary
			matched = append(matched, &copied)
		}
	}

	return matched, nil
}

func (r *fakeBeneficiaryRepo) SumShareByMemberID(_ context.Context, memberID uuid.UUID, exclude *uuid.UUID) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	sum := 0
	for _, beneficiary := range r.store.beneficiaries {
		if beneficiary.MemberID != memberID {
			continue
		}
		if exclude != nil && beneficiary.ID == *exclude {
			continue
		}
		sum += beneficiary.SharePercent
	}

	return sum, nil
}

func (r *fakeBeneficiaryRepo) Update(_ context.Context, beneficiary *entity.Beneficiary) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.beneficiaries[beneficiary.ID]; !ok {
		return repository.ErrBeneficiaryNotFound
	}
	copied := *beneficiary
	r.store.beneficiaries[beneficiary.ID] = &copied

	return nil
}

func (r *fakeBeneficiaryRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.beneficiaries[id]; !ok {
		return repository.ErrBeneficiaryNotFound
	}
	delete(r.store.beneficiaries, id)

	return nil
}

// --- Mailer ---

// recordingMailer captures outbound reset tokens for assertions.
type recordingMailer struct {
	mu     sync.Mutex
	sent   []string
	tokens []string
	err    error
}

func (m *recordingMailer) SendPasswordReset(_ context.Context, to string, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, to)
	m.tokens = append(m.tokens, token)

	return nil
}

func newTestMetrics() *metrics.Metrics {
	return metrics.New()
}
