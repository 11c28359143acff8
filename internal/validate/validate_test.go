package validate

import "testing"

func TestSnowflake(t *testing.T) {
	t.Parallel()

	valid := []string{
		"123456789012345678",
		"98765432109876543",
		"12345678901234567890",
	}
	for _, s := range valid {
		if !Snowflake(s) {
			t.Errorf("Snowflake(%q) = false, want true", s)
		}
	}

	invalid := []string{
		"",
		"1234567890123456",      // too short
		"123456789012345678901", // too long
		"12345678901234567a",
		"-12345678901234567",
	}
	for _, s := range invalid {
		if Snowflake(s) {
			t.Errorf("Snowflake(%q) = true, want false", s)
		}
	}
}

func TestEmail(t *testing.T) {
	t.Parallel()

	valid := []string{
		"user@example.com",
		"first.last@sub.example.co.uk",
		"u+tag@example.io",
	}
	for _, s := range valid {
		if !Email(s) {
			t.Errorf("Email(%q) = false, want true", s)
		}
	}

	invalid := []string{
		"",
		"not-an-email",
		"missing-domain@",
		"@missing-local.com",
		"no-dot@domain",
		"two words@example.com",
	}
	for _, s := range invalid {
		if Email(s) {
			t.Errorf("Email(%q) = true, want false", s)
		}
	}
}

func TestUsername(t *testing.T) {
	t.Parallel()

	valid := []string{"steve", "Steve_42", "a.b-c"}
	for _, s := range valid {
		if !Username(s) {
			t.Errorf("Username(%q) = false, want true", s)
		}
	}

	invalid := []string{"", ".hidden", "-dash", "with space", string(make([]byte, MaxUsernameLen+1))}
	for _, s := range invalid {
		if Username(s) {
			t.Errorf("Username(%q) = true, want false", s)
		}
	}
}

func TestPowerSignal(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"start", "stop", "restart", "kill"} {
		if !PowerSignal(s) {
			t.Errorf("PowerSignal(%q) = false, want true", s)
		}
	}
	for _, s := range []string{"", "Start", "terminate", "reboot"} {
		if PowerSignal(s) {
			t.Errorf("PowerSignal(%q) = true, want false", s)
		}
	}
}

func TestHTTPURL(t *testing.T) {
	t.Parallel()

	valid := []string{
		"https://panel.example.com",
		"http://panel.example.com:8080/base",
	}
	for _, s := range valid {
		if err := HTTPURL(s); err != nil {
			t.Errorf("HTTPURL(%q) = %v, want nil", s, err)
		}
	}

	invalid := []string{
		"",
		"panel.example.com",
		"ftp://panel.example.com",
		"file:///etc/passwd",
		"https://",
	}
	for _, s := range invalid {
		if err := HTTPURL(s); err == nil {
			t.Errorf("HTTPURL(%q) = nil, want error", s)
		}
	}
}

func TestRejectPrivateURL(t *testing.T) {
	t.Parallel()

	blocked := []string{
		"http://localhost:8080",
		"http://127.0.0.1",
		"https://10.0.0.5",
		"https://192.168.1.1/panel",
		"http://169.254.169.254/latest/meta-data",
		"http://0.0.0.0",
	}
	for _, s := range blocked {
		if err := RejectPrivateURL(s); err == nil {
			t.Errorf("RejectPrivateURL(%q) = nil, want error", s)
		}
	}

	allowed := []string{
		"https://panel.example.com",
		"https://203.0.113.7",
	}
	for _, s := range allowed {
		if err := RejectPrivateURL(s); err != nil {
			t.Errorf("RejectPrivateURL(%q) = %v, want nil", s, err)
		}
	}
}
