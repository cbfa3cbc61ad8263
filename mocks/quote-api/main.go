package main

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"
)

const (
	defaultPort      = "8082"
	defaultLatencyMs = "50"
)

type User struct {
	Name     string `json:"name"`
	LastName string `json:"lastName"`
	BirthDay string `json:"birthDay"`
}

type Plan struct {
	Name        string   `json:"name"`
	Price       float64  `json:"price"`
	Description []string `json:"description"`
	Age         int      `json:"age"`
}

type PlanList struct {
	List []Plan `json:"list"`
}

var (
	latencyMs = getEnvInt("LATENCY_MS", defaultLatencyMs)
	// FAIL_USER / FAIL_PLANS let local runs exercise the upstream error paths.
	failUser  = os.Getenv("FAIL_USER") == "true"
	failPlans = os.Getenv("FAIL_PLANS") == "true"
)

var user = User{Name: "Rocío", LastName: "Miranda Díaz", BirthDay: "02-04-1990"}

var plans = PlanList{List: []Plan{
	{
		Name:  "Plan en Casa",
		Price: 39,
		Description: []string{
			"Médico general a domicilio por S/20 y medicinas cubiertas al 100%.",
			"Videoconsulta y orientación telefónica al 100% en medicina general + pediatría.",
			"Indemnización de S/300 en caso de hospitalización por más de un día.",
		},
		Age: 60,
	},
	{
		Name:  "Plan en Casa y Clínica",
		Price: 99,
		Description: []string{
			"Consultas en clínica para cualquier especialidad.",
			"Medicinas y exámenes derivados cubiertos al 80%.",
			"Atención médica en más de 200 clínicas del país.",
		},
		Age: 70,
	},
	{
		Name:  "Plan en Casa + Chequeo",
		Price: 49,
		Description: []string{
			"Un Chequeo preventivo general de manera presencial o virtual.",
			"Acceso a Vacunas en el Programa del MINSA en centros privados.",
			"Incluye todos los beneficios del Plan en Casa.",
		},
		Age: 25,
	},
}}

func main() {
	port := getEnv("PORT", defaultPort)

	http.HandleFunc("/health", handleHealth)
	http.HandleFunc("/user.json", serve(&user, &failUser))
	http.HandleFunc("/plans.json", serve(&plans, &failPlans))

	log.Printf("Mock quote API starting on port %s", port)
	log.Printf("Simulated latency: %dms", latencyMs)

	srv := &http.Server{
		Addr:              ":" + port,
		ReadHeaderTimeout: 5 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		log.Fatal(err)
	}
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "quote-api",
	})
}

func serve(payload any, fail *bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method_not_allowed"})
			return
		}
		time.Sleep(time.Duration(latencyMs) * time.Millisecond)
		if *fail {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "unavailable"})
			return
		}
		writeJSON(w, http.StatusOK, payload)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode response: %v", err)
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key, fallback string) int {
	n, err := strconv.Atoi(getEnv(key, fallback))
	if err != nil {
		return 0
	}
	return n
}
