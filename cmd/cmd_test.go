package cmd

import (
	"os"
	"path/filepath"

	"github.com/frahmantamala/todo-api/internal"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("loadConfigFile", func() {
	writeConfig := func(security string) string {
		dir := GinkgoT().TempDir()
		body := "database:\n  source: postgres://localhost/todo\nsecurity:\n  jwt_secret: 0123456789abcdef0123\n" + security
		Expect(os.WriteFile(filepath.Join(dir, "config.yml"), []byte(body), 0o600)).To(Succeed())
		return dir
	}

	It("should default the admin id when the key is absent", func() {
		cfg, err := loadConfigFile(writeConfig(""))

		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Security.AdminUserID).To(Equal(int64(internal.DefaultAdminUserID)))
	})

	It("should keep an explicit admin id of zero", func() {
		cfg, err := loadConfigFile(writeConfig("  admin_user_id: 0\n"))

		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Security.AdminUserID).To(BeZero())

		cfg.ApplyDefaults()
		Expect(cfg.Security.AdminUserID).To(BeZero())
	})

	It("should fail when config.yml is missing", func() {
		_, err := loadConfigFile(GinkgoT().TempDir())

		Expect(err).To(MatchError(ContainSubstring("error reading config")))
	})
})
