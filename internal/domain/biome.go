package domain

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Biome имя биома, ключ таблицы погоды.
type Biome string

const (
	BiomeMeadows     Biome = "Meadows"
	BiomeBlackForest Biome = "BlackForest"
	BiomeSwamp       Biome = "Swamp"
	BiomeMountain    Biome = "Mountain"
	BiomePlains      Biome = "Plains"
	BiomeOcean       Biome = "Ocean"
	BiomeMistlands   Biome = "Mistlands"
	BiomeAshlands    Biome = "Ashlands"
	BiomeDeepNorth   Biome = "DeepNorth"
)

// biomeOrder фиксированный порядок биомов во всех ответах.
var biomeOrder = []Biome{
	BiomeMeadows,
	BiomeBlackForest,
	BiomeSwamp,
	BiomeMountain,
	BiomePlains,
	BiomeOcean,
	BiomeMistlands,
	BiomeAshlands,
	BiomeDeepNorth,
}

// Biomes возвращает копию фиксированного порядка биомов.
func Biomes() []Biome {
	out := make([]Biome, len(biomeOrder))
	copy(out, biomeOrder)
	return out
}

func (b Biome) String() string { return string(b) }

// IsKnown проверяет, входит ли биом в фиксированный список.
func (b Biome) IsKnown() bool {
	for _, known := range biomeOrder {
		if known == b {
			return true
		}
	}
	return false
}

// ParseBiome находит биом по имени без учета регистра, пробелов и подчеркиваний.
// Для опечаток в ошибке есть подсказка ("blakforest" -> BlackForest).
func ParseBiome(name string) (Biome, error) {
	key := normalizeBiomeName(name)
	if key == "" {
		return "", fmt.Errorf("%w: empty biome name", ErrInvalidInput)
	}

	for _, b := range biomeOrder {
		if normalizeBiomeName(string(b)) == key {
			return b, nil
		}
	}

	if suggestion, ok := SuggestBiome(name); ok {
		return "", fmt.Errorf("%w: unknown biome %q (did you mean %q?)", ErrInvalidInput, name, suggestion)
	}
	return "", fmt.Errorf("%w: unknown biome %q", ErrInvalidInput, name)
}

// SuggestBiome возвращает ближайший по расстоянию Левенштейна биом,
// если расстояние укладывается в допуск для длины имени.
func SuggestBiome(name string) (Biome, bool) {
	key := normalizeBiomeName(name)
	if len(key) < 3 {
		return "", false
	}

	best := Biome("")
	bestDist := -1
	for _, b := range biomeOrder {
		cand := normalizeBiomeName(string(b))
		dist := levenshtein.ComputeDistance(key, cand)
		if dist > suggestionLimit(len(cand)) {
			continue
		}
		if bestDist < 0 || dist < bestDist {
			best, bestDist = b, dist
		}
	}
	return best, bestDist >= 0
}

func suggestionLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}

func normalizeBiomeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(name)
}
