package services

import (
	"context"
	"sync"
	"testing"

	"buckeyeborrow/internal/repositories"
	"buckeyeborrow/pkg/rabbitmq"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingPublisher captures published events so tests can read the
// verification codes and reset tokens back out.
type recordingPublisher struct {
	mu     sync.Mutex
	events []recordedEvent
}

type recordedEvent struct {
	Type    string
	Payload any
}

func (p *recordingPublisher) Publish(eventType string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{Type: eventType, Payload: payload})
	return nil
}

func (p *recordingPublisher) last(t *testing.T, eventType string) map[string]string {
	t.Helper()
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := len(p.events) - 1; i >= 0; i-- {
		if p.events[i].Type == eventType {
			payload, ok := p.events[i].Payload.(map[string]string)
			require.True(t, ok, "payload should be a map")
			return payload
		}
	}
	t.Fatalf("no %s event published", eventType)
	return nil
}

func newAuthFixture() (*AuthService, *repositories.MockUserRepository, *repositories.MockCodeStore, *recordingPublisher) {
	userRepo := repositories.NewMockUserRepository()
	codes := repositories.NewMockCodeStore()
	events := &recordingPublisher{}
	svc := NewAuthService(userRepo, codes, events, "test-secret", "osu.edu")
	return svc, userRepo, codes, events
}

func validRegistration() RegisterInput {
	return RegisterInput{
		FullName:        "Brutus Buckeye",
		Email:           "brutus.1@osu.edu",
		Password:        "password123",
		ConfirmPassword: "password123",
		DormArea:        "North Campus",
	}
}

func TestRegisterRejectsNonUniversityEmail(t *testing.T) {
	svc, _, _, _ := newAuthFixture()

	in := validRegistration()
	in.Email = "brutus@gmail.com"
	_, err := svc.Register(context.Background(), in)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "email", vErr.Field)
}

func TestRegisterRejectsMismatchedPasswords(t *testing.T) {
	svc, _, _, _ := newAuthFixture()

	in := validRegistration()
	in.ConfirmPassword = "different"
	_, err := svc.Register(context.Background(), in)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "confirm_password", vErr.Field)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, _, _, _ := newAuthFixture()

	_, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), validRegistration())
	assert.ErrorIs(t, err, ErrEmailRegistered)
	assert.Equal(t, "This email is already registered. Please sign in instead.", err.Error())
}

func TestRegisterStoresHashedPasswordAndPublishesCode(t *testing.T) {
	svc, userRepo, _, events := newAuthFixture()

	user, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)
	assert.NotEqual(t, "password123", user.Password)
	assert.False(t, user.Verified)

	stored, err := userRepo.GetUserByEmail(context.Background(), "brutus.1@osu.edu")
	require.NoError(t, err)
	assert.Equal(t, user.ID, stored.ID)

	payload := events.last(t, rabbitmq.EventVerificationEmail)
	assert.Equal(t, "brutus.1@osu.edu", payload["email"])
	assert.Len(t, payload["code"], 6)
}

func TestVerifyWrongCodeCreatesNoSession(t *testing.T) {
	svc, userRepo, _, _ := newAuthFixture()
	_, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	token, err := svc.Verify(context.Background(), "brutus.1@osu.edu", "000000")
	assert.ErrorIs(t, err, ErrInvalidCode)
	assert.Empty(t, token)

	user, err := userRepo.GetUserByEmail(context.Background(), "brutus.1@osu.edu")
	require.NoError(t, err)
	assert.False(t, user.Verified)
}

func TestVerifyThenLoginFlow(t *testing.T) {
	svc, _, _, events := newAuthFixture()
	_, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	// Signing in before verification is refused.
	_, err = svc.Login(context.Background(), "brutus.1@osu.edu", "password123")
	assert.ErrorIs(t, err, ErrNotVerified)

	code := events.last(t, rabbitmq.EventVerificationEmail)["code"]
	token, err := svc.Verify(context.Background(), "brutus.1@osu.edu", code)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "brutus.1@osu.edu", claims["email"])

	// A consumed code cannot be replayed.
	_, err = svc.Verify(context.Background(), "brutus.1@osu.edu", code)
	assert.ErrorIs(t, err, ErrInvalidCode)

	token, err = svc.Login(context.Background(), "brutus.1@osu.edu", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestLoginWrongPasswordUsesRemappedCopy(t *testing.T) {
	svc, _, _, events := newAuthFixture()
	_, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)
	code := events.last(t, rabbitmq.EventVerificationEmail)["code"]
	_, err = svc.Verify(context.Background(), "brutus.1@osu.edu", code)
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "brutus.1@osu.edu", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, "Invalid email or password. Please try again.", err.Error())

	// An unknown email reads exactly the same.
	_, err = svc.Login(context.Background(), "nobody@osu.edu", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestPasswordResetFlow(t *testing.T) {
	svc, _, _, events := newAuthFixture()
	_, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)
	code := events.last(t, rabbitmq.EventVerificationEmail)["code"]
	_, err = svc.Verify(context.Background(), "brutus.1@osu.edu", code)
	require.NoError(t, err)

	require.NoError(t, svc.RequestPasswordReset(context.Background(), "brutus.1@osu.edu"))
	token := events.last(t, rabbitmq.EventPasswordResetEmail)["token"]
	require.NotEmpty(t, token)

	require.NoError(t, svc.ResetPassword(context.Background(), token, "newpassword456"))

	_, err = svc.Login(context.Background(), "brutus.1@osu.edu", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(context.Background(), "brutus.1@osu.edu", "newpassword456")
	assert.NoError(t, err)

	// The token is single-use.
	err = svc.ResetPassword(context.Background(), token, "anotherpass789")
	assert.ErrorIs(t, err, ErrInvalidResetToken)
}

func TestPasswordResetUnknownEmailSucceedsSilently(t *testing.T) {
	svc, _, _, events := newAuthFixture()

	require.NoError(t, svc.RequestPasswordReset(context.Background(), "ghost@osu.edu"))

	events.mu.Lock()
	defer events.mu.Unlock()
	assert.Empty(t, events.events)
}
