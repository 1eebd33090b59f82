package api_test

import (
	"regexp"
	"strings"

	"github.com/labstack/echo/v4"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/tidepool-org/adherence/api"
)

var _ = Describe("OpenAPI document", func() {
	pathParam := regexp.MustCompile(`:(\w+)`)

	It("describes every v1 route", func() {
		swagger, err := api.GetSwagger()
		Expect(err).ToNot(HaveOccurred())

		e := echo.New()
		api.RegisterHandlers(e, api.NewHandler(api.Params{}))
		for _, route := range e.Routes() {
			if !strings.HasPrefix(route.Path, "/v1/") {
				continue
			}
			path := pathParam.ReplaceAllString(route.Path, "{$1}")
			item := swagger.Paths.Find(path)
			Expect(item).ToNot(BeNil(), "missing path %s", path)
			Expect(item.GetOperation(route.Method)).ToNot(BeNil(), "missing operation %s %s", route.Method, path)
		}
	})
})
