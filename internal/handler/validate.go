package handler

import (
	"strings"
	"time"
	"unicode"
)

// Request validation mirrors what the mobile client promises but
// cannot be trusted to enforce. Each function returns a user-facing
// message, or "" when the value is acceptable.

func validateRegister(req *registerReq) string {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if msg := validateName(req.Name); msg != "" {
		return msg
	}
	if msg := validateEmail(req.Email); msg != "" {
		return msg
	}
	if msg := validatePhone(req.Phone); msg != "" {
		return msg
	}
	if msg := validateDateOfBirth(req.DateOfBirth); msg != "" {
		return msg
	}
	return validatePassword(req.Password)
}

func validateName(name string) string {
	if len(name) < 2 {
		return "Name must be at least 2 characters long"
	}
	if len(name) > 100 {
		return "Name must be less than 100 characters"
	}
	return ""
}

func validateEmail(email string) string {
	at := strings.Index(email, "@")
	if at < 1 || at == len(email)-1 || !strings.Contains(email[at:], ".") {
		return "Invalid email address"
	}
	return ""
}

func validatePassword(password string) string {
	if len(password) < 8 {
		return "Password must be at least 8 characters long"
	}
	hasDigit, hasLetter := false, false
	for _, r := range password {
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsLetter(r):
			hasLetter = true
		}
	}
	if !hasDigit {
		return "Password must contain at least one number"
	}
	if !hasLetter {
		return "Password must contain at least one letter"
	}
	return ""
}

func validatePhone(phone string) string {
	digits := 0
	for _, r := range phone {
		if unicode.IsDigit(r) {
			digits++
		}
	}
	if digits < 10 {
		return "Phone number must be at least 10 digits"
	}
	return ""
}

func validateDateOfBirth(dob string) string {
	born, err := time.Parse("2006-01-02", dob)
	if err != nil {
		return "Date of birth must be in YYYY-MM-DD format"
	}
	today := time.Now()
	age := today.Year() - born.Year()
	if today.Month() < born.Month() || (today.Month() == born.Month() && today.Day() < born.Day()) {
		age--
	}
	if age < 20 {
		return "You must be at least 20 years old to register"
	}
	return ""
}
