package domain

import (
	"math"
	"strings"
)

// Progress is the share of filled fields across every section, as a
// rounded percentage. It is informational and gates nothing.
func Progress(d Document) int {
	var c fieldCounter

	p := d.Personal
	c.text(p.FirstName, p.LastName, p.Email, p.Phone, p.Location, p.Title, p.LinkedinURL)
	c.text(d.Summary.Text)

	for _, e := range d.Experience {
		c.text(e.Company, e.Position, e.StartDate, e.EndDate, e.Description)
		c.flag(e.IsCurrent)
	}
	for _, e := range d.Education {
		c.text(e.Institution, e.Degree, e.FieldOfStudy, e.StartDate, e.EndDate, e.GPA)
	}
	for _, s := range d.Skills {
		c.text(s.Name)
		c.flag(s.Level.Valid())
	}
	for _, pr := range d.Projects {
		c.text(pr.Name, pr.Description, pr.URL, pr.Technologies)
	}

	if c.total == 0 {
		return 0
	}
	return int(math.Round(float64(c.filled) / float64(c.total) * 100))
}

type fieldCounter struct {
	filled, total int
}

func (c *fieldCounter) text(values ...string) {
	for _, v := range values {
		c.total++
		if strings.TrimSpace(v) != "" {
			c.filled++
		}
	}
}

func (c *fieldCounter) flag(set bool) {
	c.total++
	if set {
		c.filled++
	}
}
