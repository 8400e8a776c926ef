package utils

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/MKhiriev/care-coord/models"
)

// WriteJSON serializes data to JSON and writes it with the given status code
// and a "Content-Type: application/json" header.
//
// If marshaling fails, it responds with 500 Internal Server Error
// and returns a wrapped error.
func WriteJSON(w http.ResponseWriter, data any, statusCode int) (int, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		http.Error(w, "error writing data to JSON", http.StatusInternalServerError)
		return 0, fmt.Errorf("error writing data to JSON: %w", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	return w.Write(jsonData)
}

// WriteSuccess writes {"success":true,"data":...,"message":...}.
func WriteSuccess(w http.ResponseWriter, statusCode int, data any, message string) (int, error) {
	return WriteJSON(w, models.Response{Success: true, Data: data, Message: message}, statusCode)
}

// WriteError writes {"success":false,"error":...,"details":[...]}.
func WriteError(w http.ResponseWriter, statusCode int, message string, details ...string) (int, error) {
	return WriteJSON(w, models.Response{Success: false, Error: message, Details: details}, statusCode)
}
