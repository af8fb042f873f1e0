package core

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name        string
		description string
		want        string
	}{
		{
			name:        "grocery store brand collapses",
			description: "Lidl groceries #3",
			want:        "groceries",
		},
		{
			name:        "different brand same series",
			description: "Groceries at Billa",
			want:        "groceries",
		},
		{
			name:        "rent keyword",
			description: "Monthly rent",
			want:        "rent",
		},
		{
			name:        "salary keyword",
			description: "May salary payment",
			want:        "salary",
		},
		{
			name:        "subscription keyword",
			description: "Netflix subscription",
			want:        "netflix",
		},
		{
			name:        "electric bill",
			description: "Electricity for April",
			want:        "electric bill",
		},
		{
			name:        "no keyword becomes lower-cased singleton",
			description: "Dentist Appointment",
			want:        "dentist appointment",
		},
		{
			name:        "table order wins on multiple keywords",
			description: "Rent plus netflix bundle",
			want:        "rent",
		},
		{
			name:        "empty description stays empty",
			description: "",
			want:        "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.description)
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.description, got, tt.want)
			}
			// Pure function: repeated calls agree.
			if again := Normalize(tt.description); again != got {
				t.Errorf("Normalize(%q) not deterministic: %q then %q", tt.description, got, again)
			}
		})
	}
}
