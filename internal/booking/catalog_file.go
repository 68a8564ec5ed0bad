package booking

import (
	"fmt"
	"os"

	"github.com/metinatakli/cinema-booking/internal/domain"
	"gopkg.in/yaml.v3"
)

type catalogFile struct {
	Movies []catalogFileMovie `yaml:"movies"`
}

type catalogFileMovie struct {
	ID           int      `yaml:"id"`
	Name         string   `yaml:"name"`
	Genre        string   `yaml:"genre"`
	Rating       float64  `yaml:"rating"`
	PosterURL    string   `yaml:"poster_url"`
	SeatsPerSlot int      `yaml:"seats_per_slot"`
	Slots        []string `yaml:"slots"`
}

// LoadCatalogFile reads a YAML catalog definition. The result still has to
// go through NewCatalog, which enforces uniqueness and capacity rules.
func LoadCatalogFile(path string) ([]domain.Movie, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	return parseCatalog(data)
}

func parseCatalog(data []byte) ([]domain.Movie, error) {
	var file catalogFile

	err := yaml.Unmarshal(data, &file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}

	if len(file.Movies) == 0 {
		return nil, fmt.Errorf("catalog file defines no movies")
	}

	movies := make([]domain.Movie, len(file.Movies))
	for i, m := range file.Movies {
		if m.ID <= 0 {
			return nil, fmt.Errorf("movie #%d: id must be positive", i+1)
		}
		if m.Name == "" {
			return nil, fmt.Errorf("movie %d: name is required", m.ID)
		}

		movies[i] = domain.NewMovie(m.ID, m.Name, m.Genre, m.Rating, m.PosterURL, m.Slots, m.SeatsPerSlot)
	}

	return movies, nil
}

// DefaultMovies is the catalog the service starts with when no file is given.
func DefaultMovies() []domain.Movie {
	return []domain.Movie{
		domain.NewMovie(1, "Interstellar", "Sci-Fi", 8.6,
			"https://image.tmdb.org/t/p/w500/gEU2QniE6E77NI6lCu6dL8r8f37.jpg",
			[]string{"10:00 AM", "02:00 PM", "07:00 PM"}, 120),
		domain.NewMovie(2, "Inception", "Thriller", 8.8,
			"https://image.tmdb.org/t/p/w500/oYuLEwtmpWow0ZVrGnCvMcstna5.jpg",
			[]string{"11:00 AM", "03:00 PM", "08:00 PM"}, 100),
		domain.NewMovie(3, "The Dark Knight", "Action", 9.0,
			"https://image.tmdb.org/t/p/w500/qJ2tW6WMUDux911r6m7haRef0hl.jpg",
			[]string{"09:00 AM", "01:00 PM", "06:00 PM"}, 150),
		domain.NewMovie(4, "Dune Part Two", "Sci-Fi", 8.0,
			"https://image.tmdb.org/t/p/w500/eggspzJRx4WZAcl6eMJustzVMDi.jpg",
			[]string{"12:00 PM", "04:00 PM", "09:00 PM"}, 80),
		domain.NewMovie(5, "Oppenheimer", "Biography", 8.5,
			"https://image.tmdb.org/t/p/w500/jQ0aGi2l_cjIvNQQUno2msI6alO.jpg",
			[]string{"10:30 AM", "02:30 PM", "07:30 PM"}, 110),
		domain.NewMovie(6, "Badla", "Crime Thriller", 7.7,
			"https://image.tmdb.org/t/p/w500/lLQV3GR6U9Zz1kxH1I6jM8wHqIx.jpg",
			[]string{"10:00 AM", "02:30 PM", "07:15 PM"}, 140),
		domain.NewMovie(7, "Baahubali 2", "Action", 8.2,
			"https://image.tmdb.org/t/p/w500/J8weWC8aZ3gLVSYWD6Fq5iIHfEp.jpg",
			[]string{"11:00 AM", "03:30 PM", "08:30 PM"}, 130),
		domain.NewMovie(8, "War", "Action", 6.6,
			"https://image.tmdb.org/t/p/w500/2Fnv0fBzp0bYf3u3bxNHdx0oKrV.jpg",
			[]string{"10:15 AM", "02:45 PM", "07:30 PM"}, 125),
		domain.NewMovie(9, "Phir Hera Pheri", "Comedy", 7.4,
			"https://image.tmdb.org/t/p/w500/kS5jPEQvhfCRR2xeYc5dZyQnGD8.jpg",
			[]string{"10:30 AM", "03:00 PM", "08:00 PM"}, 115),
		domain.NewMovie(10, "PK", "Comedy", 6.8,
			"https://image.tmdb.org/t/p/w500/5k7D2MQSgN8qv5THnvQRQsyDTQS.jpg",
			[]string{"09:30 AM", "01:30 PM", "06:45 PM"}, 120),
	}
}
