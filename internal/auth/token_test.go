package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("JWTTokenGenerator", func() {
	var (
		gen      *JWTTokenGenerator
		identity Identity
	)

	ginkgo.BeforeEach(func() {
		gen = NewJWTTokenGenerator("access-secret-value", "refresh-secret-value", 15*time.Minute, 24*time.Hour)
		identity = Identity{
			ID:          2,
			Name:        "Test",
			Email:       "test1@gmail.com",
			Permissions: []string{PermTodosFetch},
		}
	})

	ginkgo.It("should round trip the identity through an access token", func() {
		token, err := gen.GenerateAccessToken(identity)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		claims, err := gen.ValidateAccessToken(token)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(claims.Identity()).To(gomega.Equal(identity))
		gomega.Expect(claims.Subject).To(gomega.Equal("2"))
		gomega.Expect(claims.ExpiresAt.Time).To(gomega.BeTemporally("~", time.Now().Add(15*time.Minute), 2*time.Second))
	})

	ginkgo.It("should keep access and refresh keys apart when both are configured", func() {
		refresh, err := gen.GenerateRefreshToken(identity)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		_, err = gen.ValidateAccessToken(refresh)
		gomega.Expect(err).To(gomega.MatchError(ErrTokenInvalid))

		_, err = gen.ValidateRefreshToken(refresh)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
	})

	ginkgo.It("should report expiry distinctly", func() {
		gen.now = func() time.Time { return time.Now().Add(-time.Hour) }
		token, err := gen.GenerateAccessToken(identity)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		gen.now = time.Now
		_, err = gen.ValidateAccessToken(token)
		gomega.Expect(err).To(gomega.MatchError(ErrTokenExpired))
	})

	ginkgo.It("should reject a tampered signature", func() {
		token, err := gen.GenerateAccessToken(identity)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		other := NewJWTTokenGenerator("a-different-secret", "", time.Minute, time.Hour)
		_, err = other.ValidateAccessToken(token)
		gomega.Expect(err).To(gomega.MatchError(ErrTokenInvalid))
	})

	ginkgo.It("should reject algorithms other than HS256", func() {
		claims := newClaims(identity, time.Minute, time.Now())
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(gen.AccessTokenSecret)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		_, err = gen.ValidateAccessToken(token)
		gomega.Expect(err).To(gomega.MatchError(ErrTokenInvalid))
	})

	ginkgo.It("should reject the none algorithm", func() {
		claims := newClaims(identity, time.Minute, time.Now())
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		_, err = gen.ValidateAccessToken(token)
		gomega.Expect(err).To(gomega.MatchError(ErrTokenInvalid))
	})
})

var _ = ginkgo.Describe("Password", func() {
	ginkgo.It("should verify a hash it produced", func() {
		hash, err := HashPassword("Secret@123", 4)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		gomega.Expect(VerifyPassword(hash, "Secret@123")).To(gomega.BeTrue())
		gomega.Expect(VerifyPassword(hash, "secret@123")).To(gomega.BeFalse())
	})

	ginkgo.It("should fail closed on empty or malformed hashes", func() {
		gomega.Expect(VerifyPassword("", "anything")).To(gomega.BeFalse())
		gomega.Expect(VerifyPassword("not-a-bcrypt-hash", "anything")).To(gomega.BeFalse())
	})

	ginkgo.It("should match the seeded hash", func() {
		gomega.Expect(VerifyPassword(seededHash, "Test@9803")).To(gomega.BeTrue())
	})
})
