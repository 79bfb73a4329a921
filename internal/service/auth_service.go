package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"campusanon/internal/model"
	"campusanon/internal/pkg"
	"campusanon/internal/repository/mysql"
	"campusanon/internal/repository/redis"

	"gorm.io/gorm"
)

type AuthService struct {
	users       *mysql.UserRepository
	communities *mysql.CommunityRepository
	members     *mysql.CommunityMemberRepository
	otp         *redis.OTPRepository
	tokens      *redis.TokenRepository
	jwt         *pkg.JWTManager
	smtp        pkg.SMTPConfig
	emailDomain string
}

func NewAuthService(jwt *pkg.JWTManager, smtp pkg.SMTPConfig, emailDomain string) *AuthService {
	return &AuthService{
		users:       &mysql.UserRepository{DB: mysql.DB},
		communities: &mysql.CommunityRepository{DB: mysql.DB},
		members:     &mysql.CommunityMemberRepository{DB: mysql.DB},
		otp:         &redis.OTPRepository{},
		tokens:      &redis.TokenRepository{},
		jwt:         jwt,
		smtp:        smtp,
		emailDomain: emailDomain,
	}
}

// SendOTP mails a fresh 6-digit code to an institutional address. A prior
// pending code for the same address is overwritten.
func (s *AuthService) SendOTP(ctx context.Context, email string) error {
	email = pkg.NormalizeEmail(email)
	if email == "" || !strings.HasSuffix(email, s.emailDomain) {
		return pkg.Validation("invalid college email")
	}
	code, err := pkg.RandDigits(6)
	if err != nil {
		return err
	}
	if err := s.otp.Store(ctx, email, code); err != nil {
		return err
	}
	html := pkg.OTPEmailHTML(code, redis.OTPCodeTTL)
	return pkg.SendEmail(s.smtp, email, "Your Verification Code", html)
}

type VerifyResult struct {
	User      *model.User
	Tokens    *pkg.Pair
	IsNewUser bool
}

// VerifyOTP checks the code and resolves identity: an existing fingerprint
// logs in, an unknown one registers. Registration is strict: the cohort
// community for (year, branch, division) must already exist, otherwise the
// request fails and no user row is created. The code is consumed only once
// identity resolution succeeds, so a mistyped branch does not burn it.
func (s *AuthService) VerifyOTP(ctx context.Context, email, code string, year int, branch, division string) (*VerifyResult, error) {
	email = pkg.NormalizeEmail(email)
	if email == "" || code == "" {
		return nil, pkg.Validation("email and otp required")
	}
	if err := s.otp.Verify(ctx, email, code); err != nil {
		switch {
		case errors.Is(err, redis.ErrOTPMismatch):
			return nil, pkg.Validation("invalid otp")
		case errors.Is(err, redis.ErrOTPMaxAttempts):
			return nil, pkg.Validation("too many attempts")
		case errors.Is(err, redis.ErrOTPNotFound):
			return nil, pkg.Validation("otp not found or expired")
		default:
			return nil, err
		}
	}

	fingerprint := pkg.HashEmail(email)
	user, err := s.users.FindByEmailHash(fingerprint)
	isNew := false
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		user, err = s.register(fingerprint, year, branch, division)
		if err != nil {
			return nil, err
		}
		isNew = true
	}

	if err := s.otp.Consume(ctx, email); err != nil {
		return nil, err
	}

	if user.IsBanned {
		return nil, pkg.Forbidden("user is banned")
	}

	pair, err := s.jwt.GeneratePair(user.ID)
	if err != nil {
		return nil, err
	}
	return &VerifyResult{User: user, Tokens: pair, IsNewUser: isNew}, nil
}

func (s *AuthService) register(fingerprint string, year int, branch, division string) (*model.User, error) {
	if year < 1 || year > 4 {
		return nil, pkg.Validation("year must be between 1 and 4")
	}
	code, ok := CanonicalBranch(branch)
	if !ok {
		return nil, pkg.Validation("unknown branch")
	}

	cohort, err := s.communities.FindCohort(year, code, strings.ToUpper(strings.TrimSpace(division)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkg.Validation("no community exists for this year/branch/division")
		}
		return nil, err
	}
	global, err := s.communities.FindGlobal()
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		global, err = s.communities.EnsureGlobal()
		if err != nil {
			return nil, err
		}
	}

	user := &model.User{
		EmailHash: fingerprint,
		Handle:    pkg.GenerateHandle(),
		Year:      year,
		Branch:    code,
	}
	// Handle collisions are vanishingly rare; retry a couple of times before
	// giving up.
	for attempt := 0; ; attempt++ {
		err = s.users.Create(user)
		if err == nil {
			break
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) && attempt < 2 {
			user.Handle = pkg.GenerateHandle()
			continue
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, pkg.Conflict("registration conflict")
		}
		return nil, err
	}

	// Idempotent enrollment in the cohort and global communities.
	if err := s.members.Join(&model.CommunityMember{CommunityID: cohort.ID, UserID: user.ID}); err != nil {
		return nil, err
	}
	if err := s.members.Join(&model.CommunityMember{CommunityID: global.ID, UserID: user.ID}); err != nil {
		return nil, err
	}
	return user, nil
}

// Refresh rotates a token pair. The consumed refresh jti is blacklisted for
// its remaining lifetime so each refresh token works exactly once.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*pkg.Pair, error) {
	claims, err := s.jwt.ParseRefresh(refreshToken)
	if err != nil {
		return nil, pkg.Unauthorized(err.Error())
	}
	if claims.ID != "" {
		spent, err := s.tokens.IsBlacklisted(ctx, claims.ID)
		if err != nil {
			return nil, err
		}
		if spent {
			return nil, pkg.Unauthorized("refresh token already used")
		}
	}

	user, err := s.users.FindByID(claims.UserID)
	if err != nil {
		return nil, pkg.Unauthorized("unknown user")
	}
	if user.IsBanned {
		return nil, pkg.Forbidden("user is banned")
	}

	if claims.ID != "" {
		remaining := time.Until(claims.ExpiresAt.Time)
		if err := s.tokens.Blacklist(ctx, claims.ID, remaining); err != nil {
			return nil, err
		}
	}
	return s.jwt.GeneratePair(user.ID)
}

func (s *AuthService) GetUser(id uint64) (*model.User, error) {
	user, err := s.users.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkg.NotFound("user not found")
		}
		return nil, err
	}
	return user, nil
}
