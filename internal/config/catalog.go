package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dgallion1/routelens/internal/route"
)

// Catalog overrides the call shapes the scanner looks for.
//
//	contentType:
//	  type: org.springframework.web.reactive.function.server.RequestPredicates
//	  methods: [contentType]
//	boundary:
//	  - type: org.springframework.web.reactive.function.server.RouterFunctions
//	    methods: [route, nest]
type Catalog struct {
	ContentType *route.Predicate  `yaml:"contentType"`
	Boundary    []route.Predicate `yaml:"boundary"`
}

// LoadCatalog reads a YAML catalog from path.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read predicate catalog: %w", err)
	}
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse predicate catalog %s: %w", path, err)
	}
	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("predicate catalog %s: %w", path, err)
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	check := func(where string, p route.Predicate) error {
		if p.DeclaringType == "" {
			return fmt.Errorf("%s: type is required", where)
		}
		if len(p.Methods) == 0 {
			return fmt.Errorf("%s: at least one method is required", where)
		}
		return nil
	}
	if c.ContentType != nil {
		if err := check("contentType", *c.ContentType); err != nil {
			return err
		}
	}
	for i, p := range c.Boundary {
		if err := check(fmt.Sprintf("boundary[%d]", i), p); err != nil {
			return err
		}
	}
	return nil
}

// Scanner returns a route scanner with the catalog applied over the defaults.
// A nil Catalog yields the default scanner.
func (c *Catalog) Scanner() *route.Scanner {
	s := route.NewScanner()
	if c == nil {
		return s
	}
	if len(c.Boundary) > 0 {
		s.Boundary = route.NewBoundary(c.Boundary...)
	}
	if c.ContentType != nil {
		for i := range s.Families {
			if s.Families[i].Kind == route.KindContentType {
				s.Families[i].Predicate = *c.ContentType
			}
		}
	}
	return s
}

// LoadScanner builds the scanner for cfg, reading the catalog when one is set.
func LoadScanner(cfg Config) (*route.Scanner, error) {
	if cfg.PredicatesFile == "" {
		return route.NewScanner(), nil
	}
	c, err := LoadCatalog(cfg.PredicatesFile)
	if err != nil {
		return nil, err
	}
	return c.Scanner(), nil
}
