package handler

import (
	"context"
	"errors"

	"github.com/mattear/canvas-avatar/internal/domain"
)

// fakeCanvas is a recording fake for port.CanvasProvider shared by the
// handler tests.
type fakeCanvas struct {
	authURL     string
	accessToken string
	exchangeErr error

	exchangeCalled bool
	exchangeCode   string

	tokenValid     bool
	validateCalled bool

	initiateCalled bool
	session        *domain.UploadSession
	file           *domain.UploadedFile
	options        []domain.AvatarOption

	setCalled bool
	setRef    domain.AvatarReference
}

func (f *fakeCanvas) AuthCodeURL() string { return f.authURL }

func (f *fakeCanvas) ExchangeCode(ctx context.Context, code string) (*domain.TokenResponse, error) {
	f.exchangeCalled = true
	f.exchangeCode = code
	if f.exchangeErr != nil {
		return nil, f.exchangeErr
	}
	return &domain.TokenResponse{AccessToken: f.accessToken, TokenType: "Bearer"}, nil
}

func (f *fakeCanvas) ValidateToken(ctx context.Context, token string) bool {
	f.validateCalled = true
	return f.tokenValid
}

func (f *fakeCanvas) InitiateUpload(ctx context.Context, token, name string, size int, contentType string) (*domain.UploadSession, error) {
	f.initiateCalled = true
	if f.session == nil {
		return nil, errors.New("no session configured")
	}
	return f.session, nil
}

func (f *fakeCanvas) FinalizeUpload(ctx context.Context, session *domain.UploadSession, name string, data []byte) (*domain.UploadedFile, error) {
	if f.file == nil {
		return nil, errors.New("no file configured")
	}
	return f.file, nil
}

func (f *fakeCanvas) ListAvatarOptions(ctx context.Context, token string) ([]domain.AvatarOption, error) {
	return f.options, nil
}

func (f *fakeCanvas) SetAvatar(ctx context.Context, token string, ref domain.AvatarReference) error {
	f.setCalled = true
	f.setRef = ref
	return nil
}

// fakeImages is a fake for port.ImageSource.
type fakeImages struct {
	fetchCalled bool
	img         *domain.SourceImage
	err         error
}

func (f *fakeImages) Fetch(ctx context.Context, url string) (*domain.SourceImage, error) {
	f.fetchCalled = true
	if f.err != nil {
		return nil, f.err
	}
	return f.img, nil
}
