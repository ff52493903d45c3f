package calculator

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts all calculator endpoints onto the given router
// under the /calculator prefix.
func RegisterRoutes(r chi.Router, s *Service) {
	r.Route("/calculator", func(r chi.Router) {
		r.Post("/add", s.Add)

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", s.CreateSession)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.GetSession)
				r.Delete("/", s.DeleteSession)

				r.Put("/operands", s.SetOperands)
				r.Post("/operands", s.AddOperand)
				r.Patch("/operands/{index}", s.EditOperand)
				r.Delete("/operands/{index}", s.RemoveOperand)

				r.Post("/start", s.Start)
				r.Post("/next", s.Next)
				r.Post("/replay", s.Replay)
				r.Post("/reset", s.Reset)
				r.Post("/load/{calcID}", s.Load)
			})
		})

		r.Get("/history", s.ListHistory)
		r.Get("/history/{calcID}", s.GetHistory)

		r.Get("/columns/{index}", s.Column)
		r.Get("/motivation", s.Motivation)
	})
}
