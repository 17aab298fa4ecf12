package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
)

// Seeder for local development: registers demo users, creates a small fleet
// with an inspection template, then plays back a plausible history of fuel
// loads and daily inspections against the HTTP API.

var sites = []string{"Planta Norte", "Planta Sur", "Cantera", "Taller Central"}

var fleet = []struct {
	Brand    string
	Model    string
	FuelType string
}{
	{"Caterpillar", "950M", "diesel"},
	{"Komatsu", "WA380", "diesel"},
	{"Toyota", "Hilux", "diesel"},
	{"John Deere", "310L", "diesel"},
	{"Nissan", "Frontier", "gasoline"},
}

var authToken string

func authorizedRequest(method, url string, body *bytes.Buffer) (*http.Response, error) {
	if body == nil {
		body = &bytes.Buffer{}
	}
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}
	client := &http.Client{Timeout: 10 * time.Second}
	return client.Do(req)
}

func postJSON(url string, payload interface{}) (map[string]interface{}, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	resp, err := authorizedRequest(http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("POST %s: status %d: %s", url, resp.StatusCode, string(raw))
	}
	var out map[string]interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func login(apiURL, username, password string) error {
	out, err := postJSON(apiURL+"/api/auth/login", map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return err
	}
	token, ok := out["token"].(string)
	if !ok || token == "" {
		return fmt.Errorf("login response has no token")
	}
	authToken = token
	return nil
}

func registerUsers(apiURL string) error {
	users := []map[string]interface{}{
		{"username": "admin", "email": "admin@example.com", "password": "admin123", "first_name": "Ana", "last_name": "Rios", "role": "admin"},
		{"username": "operator1", "email": "op1@example.com", "password": "operator123", "first_name": "Juan", "last_name": "Perez", "role": "operator", "license_valid": true},
		{"username": "mechanic1", "email": "mec1@example.com", "password": "mechanic123", "first_name": "Pedro", "last_name": "Gomez", "role": "mechanic"},
	}
	for _, u := range users {
		if _, err := postJSON(apiURL+"/api/auth/register", u); err != nil {
			// Existing users are fine on reruns.
			log.WithError(err).WithField("username", u["username"]).Warn("register skipped")
		}
	}
	return nil
}

func createVehicle(apiURL string, n int) (string, error) {
	entry := fleet[n%len(fleet)]
	tires := []map[string]interface{}{
		{"position": "1L", "axle_number": 1, "side": "left"},
		{"position": "1R", "axle_number": 1, "side": "right"},
		{"position": "2L", "axle_number": 2, "side": "left"},
		{"position": "2R", "axle_number": 2, "side": "right"},
	}
	out, err := postJSON(apiURL+"/api/vehicles", map[string]interface{}{
		"plate":     fmt.Sprintf("FLT-%03d", n+1),
		"brand":     entry.Brand,
		"model":     entry.Model,
		"year":      2018 + rand.Intn(7),
		"site":      sites[rand.Intn(len(sites))],
		"area":      "Operaciones",
		"fuel_type": entry.FuelType,
		"tires":     tires,
	})
	if err != nil {
		return "", err
	}
	id, _ := out["id"].(string)
	return id, nil
}

func createTemplate(apiURL string) (string, error) {
	out, err := postJSON(apiURL+"/api/templates", map[string]interface{}{
		"name": "Revision diaria de equipo",
		"sections": []map[string]interface{}{
			{
				"name":  "Motor",
				"order": 1,
				"questions": []map[string]interface{}{
					{"number": 1, "text": "Nivel de aceite"},
					{"number": 2, "text": "Nivel de refrigerante"},
					{"number": 3, "text": "Fugas visibles"},
				},
				"allows_comments": true,
			},
			{
				"name":  "Luces y cabina",
				"order": 2,
				"questions": []map[string]interface{}{
					{"number": 4, "text": "Luces delanteras"},
					{"number": 5, "text": "Alarma de retroceso"},
					{"number": 6, "text": "Cinturon de seguridad"},
				},
				"allows_comments": true,
			},
		},
		"tire_inspection": map[string]interface{}{
			"active":          true,
			"pressure_range":  map[string]float64{"min": 90, "max": 120},
			"tread_range":     map[string]float64{"min": 4, "max": 20},
			"allows_comments": true,
		},
		"requires_valid_license": false,
	})
	if err != nil {
		return "", err
	}
	id, _ := out["id"].(string)
	return id, nil
}

// checkState skews toward Bien; failProb is the chance of a Mal.
func checkState(failProb float64) string {
	if rand.Float64() < failProb {
		return "Mal"
	}
	return "Bien"
}

func postFuelLoad(apiURL, vehicleID string, engineHours float64, daysAgo int) error {
	loadedAt := time.Now().AddDate(0, 0, -daysAgo)
	_, err := postJSON(apiURL+"/api/fuel-loads", map[string]interface{}{
		"vehicle_id":           vehicleID,
		"liters_loaded":        math.Round((20+rand.Float64()*40)*100) / 100,
		"engine_hours_at_load": engineHours,
		"odometer_at_load":     engineHours * 28,
		"cost":                 math.Round((900+rand.Float64()*1500)*100) / 100,
		"station":              "Surtidor interno",
		"ticket_number":        fmt.Sprintf("T-%06d", rand.Intn(999999)),
		"loaded_at":            loadedAt.Format(time.RFC3339),
	})
	return err
}

func postInspection(apiURL, vehicleID, templateID string, engineHours float64) error {
	answers := make([]map[string]interface{}, 0, 6)
	for q := 1; q <= 6; q++ {
		answers = append(answers, map[string]interface{}{
			"question_number": q,
			"value":           checkState(0.08),
		})
	}
	tires := []map[string]interface{}{}
	for _, pos := range []struct {
		Position string
		Axle     int
		Side     string
	}{
		{"1L", 1, "left"}, {"1R", 1, "right"}, {"2L", 2, "left"}, {"2R", 2, "right"},
	} {
		tires = append(tires, map[string]interface{}{
			"position":          pos.Position,
			"axle_number":       pos.Axle,
			"side":              pos.Side,
			"pressure_measured": math.Round((95+rand.Float64()*20)*10) / 10,
			"pressure_state":    checkState(0.05),
			"tread_measured":    math.Round((5+rand.Float64()*10)*10) / 10,
			"tread_state":       checkState(0.05),
		})
	}
	fuelLevels := []string{"full", "3/4", "1/2", "1/4"}
	_, err := postJSON(apiURL+"/api/inspections", map[string]interface{}{
		"vehicle_id":  vehicleID,
		"template_id": templateID,
		"operational_readings": map[string]interface{}{
			"fuel_level":   fuelLevels[rand.Intn(len(fuelLevels))],
			"engine_hours": engineHours,
			"odometer":     engineHours * 28,
		},
		"answers":       answers,
		"tire_readings": tires,
	})
	return err
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func main() {
	apiURL := getEnv("API_URL", "http://localhost:8080")
	numVehicles := getEnvInt("SEED_VEHICLES", 5)
	numDays := getEnvInt("SEED_DAYS", 14)

	if err := registerUsers(apiURL); err != nil {
		log.WithError(err).Fatal("failed to register users")
	}
	if err := login(apiURL, getEnv("SEED_ADMIN_USER", "admin"), getEnv("SEED_ADMIN_PASSWORD", "admin123")); err != nil {
		log.WithError(err).Fatal("login failed")
	}

	templateID, err := createTemplate(apiURL)
	if err != nil {
		log.WithError(err).Fatal("failed to create inspection template")
	}
	log.WithField("template_id", templateID).Info("created inspection template")

	for n := 0; n < numVehicles; n++ {
		vehicleID, err := createVehicle(apiURL, n)
		if err != nil {
			log.WithError(err).Error("failed to create vehicle")
			continue
		}
		logger := log.WithField("vehicle_id", vehicleID)

		// Engine hours only ever move forward; each day adds a shift's worth.
		engineHours := float64(rand.Intn(2000))
		for day := numDays; day >= 0; day-- {
			engineHours += 4 + rand.Float64()*8

			if err := postInspection(apiURL, vehicleID, templateID, math.Round(engineHours*10)/10); err != nil {
				logger.WithError(err).Error("inspection failed")
			}
			// Refuel roughly every third day.
			if day%3 == 0 {
				if err := postFuelLoad(apiURL, vehicleID, math.Round(engineHours*10)/10, day); err != nil {
					logger.WithError(err).Error("fuel load failed")
				}
			}
		}
		logger.WithField("engine_hours", math.Round(engineHours)).Info("seeded vehicle history")
	}

	log.Info("seeding complete")
}
