package auth

import (
	"github.com/alexedwards/argon2id"
)

// PasswordParams são os parâmetros Argon2id dos hashes novos.
// Hashes antigos continuam válidos e são refeitos no próximo login.
var PasswordParams = argon2id.Params{
	Memory:      64 * 1024,
	Iterations:  3,
	Parallelism: 1,
	SaltLength:  16,
	KeyLength:   32,
}

func Hash(password string) (string, error) {
	params := PasswordParams
	return argon2id.CreateHash(password, &params)
}

// Verify confere a senha. Usuário sem hash nunca autentica; hash malformado retorna erro.
func Verify(password, encodedHash string) (bool, error) {
	if encodedHash == "" {
		return false, nil
	}
	return argon2id.ComparePasswordAndHash(password, encodedHash)
}

// NeedsRehash indica hash ilegível ou gerado com parâmetros diferentes de PasswordParams.
func NeedsRehash(encodedHash string) bool {
	p, _, _, err := argon2id.DecodeHash(encodedHash)
	if err != nil {
		return true
	}
	return p.Memory != PasswordParams.Memory ||
		p.Iterations != PasswordParams.Iterations ||
		p.Parallelism != PasswordParams.Parallelism ||
		p.KeyLength != PasswordParams.KeyLength
}
