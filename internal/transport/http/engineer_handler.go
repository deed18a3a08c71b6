package http

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/njprem/Hanuram_Constructions_BackEnd/internal/domain"
	"github.com/njprem/Hanuram_Constructions_BackEnd/internal/roster"
	"github.com/njprem/Hanuram_Constructions_BackEnd/internal/service"
	"github.com/njprem/Hanuram_Constructions_BackEnd/internal/util"
)

var engineerPage = template.Must(template.New("engineer").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>{{.Name}} | Hanuram Constructions</title>
</head>
<body>
<main class="engineer">
  {{if .ProfilePictureURL}}<img src="{{.ProfilePictureURL}}" alt="{{.Name}}">{{end}}
  <h1>{{.Name}}</h1>
  <p class="specialization">{{.Specialization}}</p>
  {{with .Experience}}<p class="experience">{{.}} years of experience</p>{{end}}
  {{if .Location}}<p class="location">{{.Location}}</p>{{end}}
  <p class="contact">{{.Contact.Phone}} {{.Contact.Email}}</p>
  {{if .Bio}}<section class="bio"><p>{{.Bio}}</p></section>{{end}}
  {{if .Description}}<section class="description"><p>{{.Description}}</p></section>{{end}}
  {{if .Qualifications}}<section class="qualifications"><h2>Qualifications</h2><ul>
  {{range .Qualifications}}<li>{{.Degree}}, {{.University}}</li>{{end}}
  </ul></section>{{end}}
  {{if .ProjectHighlights}}<section class="projects"><h2>Project highlights</h2><ul>
  {{range .ProjectHighlights}}<li>{{.}}</li>{{end}}
  </ul></section>{{end}}
  {{if .Videos}}<section class="videos"><h2>Videos</h2>
  {{range .Videos}}<a href="{{.}}">{{.}}</a>{{end}}
  </section>{{end}}
  {{if .ServicesOffered}}<section class="services"><h2>Services</h2><table>
  {{range .ServicesOffered}}<tr><td>{{.Service}}</td><td>{{printf "%.2f" .Price}}</td><td>{{.TimeRequired}}</td></tr>{{end}}
  </table></section>{{end}}
</main>
</body>
</html>`))

type EngineerHandler struct {
	profiles *service.EngineerProfileCache
	roster   *roster.Roster
	log      logrus.FieldLogger
}

// RegisterEngineers mounts the directory API and the profile pages. The
// static /engineers/api/main route wins over /engineers/:id.
func RegisterEngineers(e *echo.Echo, profiles *service.EngineerProfileCache, r *roster.Roster, log logrus.FieldLogger) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	h := &EngineerHandler{profiles: profiles, roster: r, log: log}

	e.GET("/api/main", h.listSummaries)
	g := e.Group("/engineers")
	g.GET("/api/main", h.listSummaries)
	g.GET("/:id", h.detail)
}

func (h *EngineerHandler) listSummaries(c echo.Context) error {
	return c.JSON(http.StatusOK, h.roster.Summaries())
}

func (h *EngineerHandler) detail(c echo.Context) error {
	engineerID := strings.TrimSpace(c.Param("id"))
	profile, err := h.profiles.GetDetail(c.Request().Context(), engineerID)
	if err != nil {
		if errors.Is(err, service.ErrEngineerNotFound) {
			return c.String(http.StatusNotFound, fmt.Sprintf("Engineer with ID %s not found.", engineerID))
		}
		h.log.WithError(err).WithField("engineer_id", engineerID).Error("load engineer profile")
		return c.JSON(http.StatusInternalServerError, util.Error("Something went wrong."))
	}

	if wantsJSON(c) {
		return c.JSON(http.StatusOK, profile)
	}
	page, err := renderEngineer(profile)
	if err != nil {
		h.log.WithError(err).WithField("engineer_id", engineerID).Error("render engineer profile")
		return c.JSON(http.StatusInternalServerError, util.Error("Something went wrong."))
	}
	return c.HTMLBlob(http.StatusOK, page)
}

func renderEngineer(profile *domain.EngineerProfile) ([]byte, error) {
	var buf bytes.Buffer
	if err := engineerPage.Execute(&buf, profile); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func wantsJSON(c echo.Context) bool {
	accept := c.Request().Header.Get(echo.HeaderAccept)
	return strings.Contains(accept, echo.MIMEApplicationJSON) && !strings.Contains(accept, echo.MIMETextHTML)
}
