package storage

import (
	"context"
	"errors"
	"time"

	"github.com/Pierocul/DIDAWARDS/logging"
)

// SeedExampleData loads the demonstration catalog used when no real
// categories exist yet. Existing IDs are left untouched.
func SeedExampleData(ctx context.Context, s *Store) error {
	now := time.Now().UTC()

	categories := []*Category{
		{ID: "cat1", Name: "Mejor Proyecto de Software", Description: "Proyectos innovadores en desarrollo de software", Order: 1},
		{ID: "cat2", Name: "Mejor Diseño UX/UI", Description: "Experiencias de usuario excepcionales", Order: 2},
		{ID: "cat3", Name: "Mejor Proyecto de Hardware", Description: "Innovaciones en hardware y dispositivos", Order: 3},
	}
	candidates := []*Candidate{
		{ID: "cand1", CategoryID: "cat1", Name: "EcoTracker App", Description: "Aplicación móvil para seguimiento de huella de carbono personal"},
		{ID: "cand2", CategoryID: "cat1", Name: "SmartHome Hub", Description: "Sistema centralizado para automatización del hogar"},
		{ID: "cand3", CategoryID: "cat1", Name: "HealthConnect", Description: "Plataforma de telemedicina con IA para diagnóstico"},
		{ID: "cand4", CategoryID: "cat2", Name: "DesignFlow", Description: "Herramienta de diseño colaborativo en tiempo real"},
		{ID: "cand5", CategoryID: "cat2", Name: "EduPlatform", Description: "Interfaz de aprendizaje adaptativo con gamificación"},
		{ID: "cand6", CategoryID: "cat3", Name: "Quantum Sensor", Description: "Sensor cuántico para detección de materiales"},
	}

	for i, c := range categories {
		c.CreatedAt = now.Add(time.Duration(i) * time.Millisecond)
		c.CreatedBy = "seed"
		if err := s.Categories.Create(ctx, c); err != nil && !errors.Is(err, ErrItemWithIDAlreadyExists) {
			return err
		}
	}
	for i, c := range candidates {
		c.CreatedAt = now.Add(time.Duration(i) * time.Millisecond)
		c.CreatedBy = "seed"
		if err := s.Candidates.Create(ctx, c); err != nil && !errors.Is(err, ErrItemWithIDAlreadyExists) {
			return err
		}
	}

	logging.Log.Infof("SEED: loaded %d example categories and %d candidates", len(categories), len(candidates))
	return nil
}
