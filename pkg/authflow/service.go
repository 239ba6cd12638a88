package authflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/simpleauth/simple-auth/pkg/account"
	"github.com/simpleauth/simple-auth/pkg/notification"
	"github.com/simpleauth/simple-auth/pkg/session"
	"github.com/simpleauth/simple-auth/pkg/singleuse"
	"github.com/simpleauth/simple-auth/pkg/tokengenerator"
)

// Service orchestrates the account lifecycle use cases: signup,
// activation, login, logout, refresh, password reset and OTP validation.
// It sequences the stores under the account state machine and keeps the
// store round-trips of existence-revealing branches symmetric, so the
// response timing does not leak whether an account exists.
type Service struct {
	users            account.Repository
	hasher           account.PasswordHasher
	guard            account.LoginGuard
	validationTokens *singleuse.Store
	otpCodes         *singleuse.Store
	sessions         session.Repository
	tokens           tokengenerator.TokenService
	notifier         *notification.NotificationManager
}

// ServiceOption is a functional option for configuring the Service.
type ServiceOption func(*Service)

// WithLoginGuard replaces the default login guard.
func WithLoginGuard(guard account.LoginGuard) ServiceOption {
	return func(s *Service) {
		s.guard = guard
	}
}

// WithNotificationManager sets the notification manager. Without one,
// notices are skipped and flows still succeed.
func WithNotificationManager(nm *notification.NotificationManager) ServiceOption {
	return func(s *Service) {
		s.notifier = nm
	}
}

// NewService creates a new auth flow service.
func NewService(
	users account.Repository,
	hasher account.PasswordHasher,
	validationTokens *singleuse.Store,
	otpCodes *singleuse.Store,
	sessions session.Repository,
	tokens tokengenerator.TokenService,
	opts ...ServiceOption,
) *Service {
	s := &Service{
		users:            users,
		hasher:           hasher,
		guard:            account.DefaultLoginGuard,
		validationTokens: validationTokens,
		otpCodes:         otpCodes,
		sessions:         sessions,
		tokens:           tokens,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// SignupParams holds the signup request fields.
type SignupParams struct {
	Email       string
	FullName    string
	PhoneNumber string
	Password    string
}

// SignupResult is the outcome of a successful signup.
type SignupResult struct {
	User account.User
}

// LoginResult is the outcome of a successful login.
type LoginResult struct {
	UserID       uuid.UUID
	AccessToken  tokengenerator.TokenValue
	RefreshToken tokengenerator.TokenValue
}

// RefreshResult is the rotated token pair.
type RefreshResult struct {
	AccessToken  tokengenerator.TokenValue
	RefreshToken tokengenerator.TokenValue
}

// Signup creates a new pending account, or resurrects a soft-deleted one
// with the same email. A live user with the same email is a conflict.
func (s *Service) Signup(ctx context.Context, params SignupParams) (SignupResult, error) {
	existing, err := s.users.FindUserByEmail(ctx, params.Email)
	if err != nil && !errors.Is(err, account.ErrUserNotFound) {
		return SignupResult{}, fmt.Errorf("failed to look up user: %w", err)
	}
	if err == nil && !existing.IsDeleted() {
		return SignupResult{}, ErrUserAlreadyExists
	}

	var user account.User
	if err == nil {
		// soft-delete resurrection: reuse the row, reset its lifecycle
		user, err = s.users.ResurrectUser(ctx, existing.ID, account.ResurrectUserParams{
			FullName:    params.FullName,
			PhoneNumber: params.PhoneNumber,
		})
	} else {
		user, err = s.users.CreateUser(ctx, account.CreateUserParams{
			Email:       params.Email,
			FullName:    params.FullName,
			PhoneNumber: params.PhoneNumber,
		})
	}
	if err != nil {
		if errors.Is(err, account.ErrEmailTaken) {
			return SignupResult{}, ErrUserAlreadyExists
		}
		return SignupResult{}, fmt.Errorf("failed to create user: %w", err)
	}

	// no ordering dependency between hashing the password and issuing the
	// validation token
	var token singleuse.Token
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		hash, hashErr := s.hasher.Hash(params.Password)
		if hashErr != nil {
			return hashErr
		}
		return s.users.SetPassword(gctx, user.ID, hash)
	})
	g.Go(func() error {
		var issueErr error
		token, issueErr = s.validationTokens.Issue(gctx, user.ID)
		return issueErr
	})
	if err := g.Wait(); err != nil {
		return SignupResult{}, fmt.Errorf("failed to provision credentials: %w", err)
	}

	s.sendActivationEmail(user, token.Token, notification.AccountActivationNotice)
	return SignupResult{User: user}, nil
}

// Activate consumes an email validation token and moves the bound pending
// account to active.
func (s *Service) Activate(ctx context.Context, token string) (account.User, error) {
	return s.activate(ctx, s.validationTokens, token)
}

// ActivateSMS is Activate for a phone-delivered one-time code.
func (s *Service) ActivateSMS(ctx context.Context, code string) (account.User, error) {
	return s.activate(ctx, s.otpCodes, code)
}

func (s *Service) activate(ctx context.Context, store *singleuse.Store, token string) (account.User, error) {
	valid, err := store.IsValid(ctx, token)
	if err != nil {
		return account.User{}, err
	}
	if !valid {
		return account.User{}, ErrInvalidToken
	}

	t, err := store.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, singleuse.ErrTokenNotFound) {
			return account.User{}, ErrInvalidToken
		}
		return account.User{}, err
	}

	// the token is consumed before the status check; a stale request
	// against an already activated account still burns it, which keeps
	// replayed tokens from probing account state
	if err := store.DeleteByUserID(ctx, t.UserID); err != nil {
		if errors.Is(err, singleuse.ErrTokenNotFound) {
			return account.User{}, ErrInvalidToken
		}
		return account.User{}, err
	}

	user, err := s.users.FindUserByID(ctx, t.UserID)
	if err != nil {
		if errors.Is(err, account.ErrUserNotFound) {
			return account.User{}, ErrInvalidToken
		}
		return account.User{}, err
	}

	next, err := user.Status.Next(account.EventActivate)
	if err != nil {
		return account.User{}, ErrAlreadyActivated
	}
	if err := s.users.UpdateStatus(ctx, user.ID, next); err != nil {
		return account.User{}, fmt.Errorf("failed to activate user: %w", err)
	}

	user.Status = next
	slog.Info("Account activated", "user_id", user.ID)
	return user, nil
}

// Login verifies the credentials and issues an access/refresh pair. The
// password comparison runs on every call, against a placeholder when the
// email is unknown, so both branches pay the same bcrypt and store cost.
func (s *Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	user, findErr := s.users.FindUserByEmail(ctx, email)
	if findErr != nil && !errors.Is(findErr, account.ErrUserNotFound) {
		return LoginResult{}, fmt.Errorf("failed to look up user: %w", findErr)
	}

	var hash []byte
	if findErr == nil {
		hash, _ = s.users.GetPasswordHash(ctx, user.ID)
	} else {
		_, _ = s.users.GetPasswordHash(ctx, uuid.New())
	}
	match := s.hasher.Compare(password, hash)

	if findErr != nil || user.IsDeleted() || !match {
		return LoginResult{}, ErrInvalidCredentials
	}

	switch user.Status {
	case account.StatusPendingVerification:
		if err := s.nudgeActivation(ctx, user); err != nil {
			return LoginResult{}, err
		}
		return LoginResult{}, ErrPendingVerification
	case account.StatusDisabled:
		// reissuing here doubles as a reactivation nudge
		if err := s.reissueActivation(ctx, user, notification.AccountReactivationNotice); err != nil {
			return LoginResult{}, err
		}
		return LoginResult{}, ErrAccountDisabled
	}

	if err := s.guard(user); err != nil {
		slog.Warn("Login rejected by guard", "user_id", user.ID, "err", err)
		return LoginResult{}, ErrLoginDenied
	}
	if !user.Status.CanLogin() {
		return LoginResult{}, ErrLoginDenied
	}

	pair, err := s.tokens.GenerateTokens(user.ID.String(), nil)
	if err != nil {
		return LoginResult{}, fmt.Errorf("failed to generate tokens: %w", err)
	}
	if _, err := s.sessions.Create(ctx, user.ID, pair.RefreshToken.Token); err != nil {
		return LoginResult{}, fmt.Errorf("failed to create session: %w", err)
	}

	return LoginResult{
		UserID:       user.ID,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

// nudgeActivation reuses a still-valid pending token, or issues and sends
// a fresh one.
func (s *Service) nudgeActivation(ctx context.Context, user account.User) error {
	existing, err := s.validationTokens.FindByUserID(ctx, user.ID)
	if err == nil {
		valid, verr := s.validationTokens.IsValid(ctx, existing.Token)
		if verr != nil {
			return verr
		}
		if valid {
			// the earlier email still works; nothing to resend
			return nil
		}
	} else if !errors.Is(err, singleuse.ErrTokenNotFound) {
		return err
	}
	return s.reissueActivation(ctx, user, notification.AccountActivationNotice)
}

func (s *Service) reissueActivation(ctx context.Context, user account.User, notice notification.NoticeType) error {
	token, err := s.validationTokens.Issue(ctx, user.ID)
	if err != nil {
		return err
	}
	s.sendActivationEmail(user, token.Token, notice)
	return nil
}

// Logout deletes the session matching the user and token exactly. It is
// idempotent; a missing session is not an error.
func (s *Service) Logout(ctx context.Context, userID uuid.UUID, refreshToken string) error {
	return s.sessions.DeleteByUserIDAndToken(ctx, userID, refreshToken)
}

// Refresh rotates a refresh token: the session row keeps its identity and
// the stored token is overwritten, so the old value is immediately dead.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (RefreshResult, error) {
	if refreshToken == "" {
		return RefreshResult{}, ErrMissingRefreshToken
	}

	sess, err := s.sessions.FindByToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			return RefreshResult{}, ErrInvalidRefreshToken
		}
		return RefreshResult{}, err
	}

	pair, err := s.tokens.GenerateTokens(sess.UserID.String(), nil)
	if err != nil {
		return RefreshResult{}, fmt.Errorf("failed to generate tokens: %w", err)
	}
	if err := s.sessions.UpdateToken(ctx, sess.ID, pair.RefreshToken.Token); err != nil {
		return RefreshResult{}, fmt.Errorf("failed to rotate session token: %w", err)
	}

	return RefreshResult{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

// RequestPasswordResetEmail issues a reset token and emails it when the
// account exists and is active. The negative path performs the same store
// round-trips and reports success either way.
func (s *Service) RequestPasswordResetEmail(ctx context.Context, email string) error {
	user, err := s.users.FindUserByEmail(ctx, email)
	if err != nil && !errors.Is(err, account.ErrUserNotFound) {
		return fmt.Errorf("failed to look up user: %w", err)
	}
	if err != nil || user.IsDeleted() || user.Status != account.StatusActive {
		s.decoyIssueWork(ctx, s.validationTokens)
		return nil
	}

	token, err := s.validationTokens.Issue(ctx, user.ID)
	if err != nil {
		return err
	}
	s.sendPasswordResetEmail(user, token.Token)
	return nil
}

// RequestPasswordResetSMS issues a one-time code and texts it when the
// account exists, is active and has a phone number on file.
func (s *Service) RequestPasswordResetSMS(ctx context.Context, email string) error {
	user, err := s.users.FindUserByEmail(ctx, email)
	if err != nil && !errors.Is(err, account.ErrUserNotFound) {
		return fmt.Errorf("failed to look up user: %w", err)
	}
	if err != nil || user.IsDeleted() || user.Status != account.StatusActive || user.PhoneNumber == "" {
		s.decoyIssueWork(ctx, s.otpCodes)
		return nil
	}

	code, err := s.otpCodes.Issue(ctx, user.ID)
	if err != nil {
		return err
	}
	s.sendOTPSMS(user, code.Token)
	return nil
}

// ResendActivationEmail reissues the activation token for a pending
// account; every other case runs the decoy branch and reports success.
func (s *Service) ResendActivationEmail(ctx context.Context, email string) error {
	user, err := s.users.FindUserByEmail(ctx, email)
	if err != nil && !errors.Is(err, account.ErrUserNotFound) {
		return fmt.Errorf("failed to look up user: %w", err)
	}
	if err != nil || user.IsDeleted() || user.Status != account.StatusPendingVerification {
		s.decoyIssueWork(ctx, s.validationTokens)
		return nil
	}
	return s.reissueActivation(ctx, user, notification.AccountActivationNotice)
}

// ResendActivationSMS reissues the activation one-time code for a pending
// account with a phone number on file.
func (s *Service) ResendActivationSMS(ctx context.Context, email string) error {
	user, err := s.users.FindUserByEmail(ctx, email)
	if err != nil && !errors.Is(err, account.ErrUserNotFound) {
		return fmt.Errorf("failed to look up user: %w", err)
	}
	if err != nil || user.IsDeleted() || user.Status != account.StatusPendingVerification || user.PhoneNumber == "" {
		s.decoyIssueWork(ctx, s.otpCodes)
		return nil
	}

	code, err := s.otpCodes.Issue(ctx, user.ID)
	if err != nil {
		return err
	}
	s.sendOTPSMS(user, code.Token)
	return nil
}

// ChangePasswordEmail consumes a reset token and replaces the password.
func (s *Service) ChangePasswordEmail(ctx context.Context, token, newPassword string) error {
	return s.changePassword(ctx, s.validationTokens, token, newPassword)
}

// ChangePasswordSMS consumes a one-time code and replaces the password.
func (s *Service) ChangePasswordSMS(ctx context.Context, code, newPassword string) error {
	return s.changePassword(ctx, s.otpCodes, code, newPassword)
}

func (s *Service) changePassword(ctx context.Context, store *singleuse.Store, token, newPassword string) error {
	valid, err := store.IsValid(ctx, token)
	if err != nil {
		return err
	}
	t, findErr := store.FindByToken(ctx, token)
	if findErr != nil && !errors.Is(findErr, singleuse.ErrTokenNotFound) {
		return findErr
	}

	// the presented credential is burned first, success or failure
	if err := store.DeleteIfExists(ctx, token); err != nil {
		return err
	}

	if findErr != nil || !valid {
		s.decoyUserLookup(ctx)
		s.decoyPasswordWrite(ctx, newPassword)
		return ErrPasswordResetFailed
	}

	user, err := s.users.FindUserByID(ctx, t.UserID)
	if err != nil && !errors.Is(err, account.ErrUserNotFound) {
		return err
	}
	if err != nil || user.IsDeleted() || user.Status != account.StatusActive {
		s.decoyPasswordWrite(ctx, newPassword)
		return ErrPasswordResetFailed
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.users.SetPassword(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("failed to replace password: %w", err)
	}
	if err := s.sessions.DeleteManyByUserID(ctx, user.ID); err != nil {
		return fmt.Errorf("failed to invalidate sessions: %w", err)
	}

	slog.Info("Password changed, all sessions invalidated", "user_id", user.ID)
	return nil
}

// ValidateOTP checks a one-time code without consuming it; consumption
// happens at the follow-up change-password step (two-phase confirm).
// Every failure collapses to the same generic outcome.
func (s *Service) ValidateOTP(ctx context.Context, code string) error {
	valid, err := s.otpCodes.IsValid(ctx, code)
	if err != nil {
		return err
	}
	t, findErr := s.otpCodes.FindByToken(ctx, code)
	if findErr != nil && !errors.Is(findErr, singleuse.ErrTokenNotFound) {
		return findErr
	}
	if findErr != nil || !valid {
		s.decoyUserLookup(ctx)
		return ErrOTPExpiredOrInvalid
	}

	user, err := s.users.FindUserByID(ctx, t.UserID)
	if err != nil && !errors.Is(err, account.ErrUserNotFound) {
		return err
	}
	if err != nil || user.IsDeleted() || user.Status != account.StatusActive {
		return ErrOTPExpiredOrInvalid
	}
	return nil
}

// decoyIssueWork mirrors the store round-trips of Store.Issue without
// writing anything, keeping the negative branch of existence-gated flows
// at the same awaited store cost as the positive one.
func (s *Service) decoyIssueWork(ctx context.Context, store *singleuse.Store) {
	decoyID := uuid.New()
	_ = store.DeleteIfUserHas(ctx, decoyID)
	_, _ = store.FindByUserID(ctx, decoyID)
}

func (s *Service) decoyUserLookup(ctx context.Context) {
	_, _ = s.users.FindUserByID(ctx, uuid.New())
}

// decoyPasswordWrite mirrors the hash, password write and session purge
// of a successful change without mutating anything.
func (s *Service) decoyPasswordWrite(ctx context.Context, newPassword string) {
	_, _ = s.hasher.Hash(newPassword)
	decoyID := uuid.New()
	_, _ = s.users.GetPasswordHash(ctx, decoyID)
	_, _ = s.sessions.IsTokenValid(ctx, "")
}

func (s *Service) sendActivationEmail(user account.User, token string, notice notification.NoticeType) {
	if s.notifier == nil {
		slog.Warn("Notification manager not configured, skipping email send")
		return
	}

	link := fmt.Sprintf("%s/activate/%s", s.notifier.BaseUrl, token)
	data := notification.NotificationData{
		To: user.Email,
		Data: map[string]string{
			"Name":           user.FullName,
			"ActivationLink": link,
			"ExpiryHours":    fmt.Sprintf("%.0f", s.validationTokens.Validity().Hours()),
		},
	}
	if err := s.notifier.Send(notice, notification.EmailSystem, data); err != nil {
		// best effort: the token is issued either way
		slog.Error("Failed to send activation email", "user_id", user.ID, "err", err)
	}
}

func (s *Service) sendPasswordResetEmail(user account.User, token string) {
	if s.notifier == nil {
		slog.Warn("Notification manager not configured, skipping email send")
		return
	}

	link := fmt.Sprintf("%s/password-reset/%s", s.notifier.BaseUrl, token)
	data := notification.NotificationData{
		To: user.Email,
		Data: map[string]string{
			"Name": user.FullName,
			"Link": link,
		},
	}
	if err := s.notifier.Send(notification.PasswordResetNotice, notification.EmailSystem, data); err != nil {
		slog.Error("Failed to send password reset email", "user_id", user.ID, "err", err)
	}
}

func (s *Service) sendOTPSMS(user account.User, code string) {
	if s.notifier == nil {
		slog.Warn("Notification manager not configured, skipping sms send")
		return
	}

	data := notification.NotificationData{
		To: user.PhoneNumber,
		Data: map[string]string{
			"Code":          code,
			"ExpiryMinutes": fmt.Sprintf("%.0f", s.otpCodes.Validity().Minutes()),
		},
	}
	if err := s.notifier.Send(notification.OTPCodeNotice, notification.SMSSystem, data); err != nil {
		slog.Error("Failed to send otp sms", "user_id", user.ID, "err", err)
	}
}
