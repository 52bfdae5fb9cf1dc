package auth

import (
	"log"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

type Authenticator struct{}

// GenerateSecret returns the otpauth URI and the raw secret for enrolling an
// authenticator app. SHA1 keeps Google Authenticator compatibility.
func (a *Authenticator) GenerateSecret(accountName string) (string, string, error) {
	secret, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "FinanzaSimple",
		AccountName: accountName,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		log.Println("Error during totp secret generation: ", err)
		return "", "", ErrInternalError
	}

	return secret.URL(), secret.Secret(), nil
}

func (a *Authenticator) VerifyCode(secret, code string) bool {
	return totp.Validate(code, secret)
}
