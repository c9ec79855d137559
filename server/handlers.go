package server

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/cryptlib/encryption"
	apperrors "github.com/kbukum/cryptlib/errors"
	"github.com/kbukum/cryptlib/keymaterial"
	"github.com/kbukum/cryptlib/observability"
)

// IV modes reported in responses and spans.
const (
	ModeFixedIV  = "iv"
	ModeRandomIV = "random"
)

// EncryptRequest is the body of POST /v1/encrypt. A nil IV selects
// random-IV mode. JSON decoding replaces invalid UTF-8 in any string
// field with U+FFFD, so the fields always hold valid UTF-8.
type EncryptRequest struct {
	Plaintext  string  `json:"plaintext"`
	Passphrase string  `json:"passphrase"`
	IV         *string `json:"iv,omitempty"`
}

// DecryptRequest is the body of POST /v1/decrypt. A nil IV selects
// random-IV mode.
type DecryptRequest struct {
	Ciphertext string  `json:"ciphertext"`
	Passphrase string  `json:"passphrase"`
	IV         *string `json:"iv,omitempty"`
}

// EncryptResponse carries Base64 ciphertext.
type EncryptResponse struct {
	Ciphertext string `json:"ciphertext"`
	Mode       string `json:"mode"`
	Envelope   string `json:"envelope,omitempty"`
}

// DecryptResponse carries recovered plaintext.
type DecryptResponse struct {
	Plaintext string `json:"plaintext"`
}

// IVResponse carries a fresh random IV as 32 lowercase hex characters.
type IVResponse struct {
	IV string `json:"iv"`
}

// API serves the encryption endpoints.
type API struct {
	svc    *encryption.Service
	random io.Reader
}

// NewAPI creates the API over svc. random feeds GET /v1/iv; nil means
// crypto/rand.
func NewAPI(svc *encryption.Service, random io.Reader) *API {
	return &API{svc: svc, random: random}
}

// Register mounts the API routes under /v1.
func (a *API) Register(r gin.IRouter) {
	v1 := r.Group("/v1")
	v1.POST("/encrypt", a.Encrypt)
	v1.POST("/decrypt", a.Decrypt)
	v1.GET("/iv", a.GenerateIV)
}

// Encrypt handles POST /v1/encrypt.
func (a *API) Encrypt(c *gin.Context) {
	var req EncryptRequest
	if err := bind(c, &req); err != nil {
		RespondWithError(c, err)
		return
	}

	ctx, span := observability.StartSpan(c.Request.Context(), observability.SpanEncrypt)
	defer span.End()

	resp := EncryptResponse{Mode: ModeFixedIV}
	var err error
	if req.IV != nil {
		resp.Ciphertext, err = a.svc.EncryptWithIV(req.Plaintext, req.Passphrase, *req.IV)
	} else {
		resp.Mode = ModeRandomIV
		resp.Envelope = string(a.svc.Envelope())
		resp.Ciphertext, err = a.svc.EncryptWithRandomIV(req.Plaintext, req.Passphrase)
	}
	a.annotate(ctx, resp.Mode, err)
	if err != nil {
		RespondWithError(c, err)
		return
	}
	RespondOK(c, resp)
}

// Decrypt handles POST /v1/decrypt.
func (a *API) Decrypt(c *gin.Context) {
	var req DecryptRequest
	if err := bind(c, &req); err != nil {
		RespondWithError(c, err)
		return
	}

	ctx, span := observability.StartSpan(c.Request.Context(), observability.SpanDecrypt)
	defer span.End()

	mode := ModeFixedIV
	var (
		pt  string
		err error
	)
	if req.IV != nil {
		pt, err = a.svc.DecryptWithIV(req.Ciphertext, req.Passphrase, *req.IV)
	} else {
		mode = ModeRandomIV
		pt, err = a.svc.DecryptWithRandomIV(req.Ciphertext, req.Passphrase)
	}
	a.annotate(ctx, mode, err)
	if err != nil {
		RespondWithError(c, err)
		return
	}
	RespondOK(c, DecryptResponse{Plaintext: pt})
}

// GenerateIV handles GET /v1/iv.
func (a *API) GenerateIV(c *gin.Context) {
	ctx, span := observability.StartSpan(c.Request.Context(), observability.SpanGenerateIV)
	defer span.End()

	iv, err := keymaterial.GenerateRandomIVFrom(a.random)
	if err != nil {
		observability.SetSpanError(ctx, err)
		observability.SetSpanAttribute(ctx, observability.AttrErrorCode, string(apperrors.CodeOf(err)))
		RespondWithError(c, err)
		return
	}
	RespondOK(c, IVResponse{IV: iv})
}

func (a *API) annotate(ctx context.Context, mode string, err error) {
	observability.SetSpanAttribute(ctx, observability.AttrIVMode, mode)
	observability.SetSpanAttribute(ctx, observability.AttrKDF, a.svc.KDF())
	if mode == ModeRandomIV {
		observability.SetSpanAttribute(ctx, observability.AttrEnvelope, string(a.svc.Envelope()))
	}
	if err != nil {
		observability.SetSpanError(ctx, err)
		observability.SetSpanAttribute(ctx, observability.AttrErrorCode, string(apperrors.CodeOf(err)))
	}
}

// bind decodes the JSON body into req.
func bind(c *gin.Context, req any) error {
	if err := c.ShouldBindJSON(req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		return apperrors.InvalidInput("body", "request body must be a JSON object").WithCause(err)
	}
	return nil
}
