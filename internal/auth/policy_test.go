package auth

import (
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("Policy", func() {
	var policy *Policy

	ginkgo.BeforeEach(func() {
		policy = NewPolicy(1)
	})

	ginkgo.Describe("Allow", func() {
		ginkgo.It("should let ordinary users own resources", func() {
			gomega.Expect(policy.Allow(map[string]string{"user_id": "2"}, "", ActionOwn)).To(gomega.BeTrue())
		})

		ginkgo.It("should not let the admin own resources", func() {
			gomega.Expect(policy.Allow(map[string]string{"user_id": "1"}, "", ActionOwn)).To(gomega.BeFalse())
		})

		ginkgo.It("should deny when no user attribute is present", func() {
			gomega.Expect(policy.Allow(map[string]string{}, "", ActionOwn)).To(gomega.BeFalse())
		})

		ginkgo.It("should deny unknown actions", func() {
			gomega.Expect(policy.Allow(map[string]string{"user_id": "2"}, "2", "approve")).To(gomega.BeFalse())
		})
	})

	ginkgo.Describe("CanOwnTodos", func() {
		ginkgo.It("should forbid the designated admin", func() {
			gomega.Expect(policy.CanOwnTodos(1)).To(gomega.MatchError(ErrForbidden))
			gomega.Expect(policy.CanOwnTodos(2)).To(gomega.Succeed())
		})

		ginkgo.It("should follow a configured admin id of zero", func() {
			policy = NewPolicy(0)

			gomega.Expect(policy.CanOwnTodos(0)).To(gomega.MatchError(ErrForbidden))
			gomega.Expect(policy.CanOwnTodos(1)).To(gomega.Succeed())
		})
	})

	ginkgo.Describe("CanDeleteUser", func() {
		ginkgo.It("should protect the admin account", func() {
			gomega.Expect(policy.CanDeleteUser(1)).To(gomega.MatchError(ErrForbidden))
		})

		ginkgo.It("should allow removing other accounts", func() {
			gomega.Expect(policy.CanDeleteUser(2)).To(gomega.Succeed())
		})
	})
})
