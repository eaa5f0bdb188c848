package student

import "testing"

func TestStudent_password(t *testing.T) {
	var std Student
	if err := std.SetPassword("mdr"); err != nil {
		t.Fatalf("SetPassword() failed, %v", err)
	}
	if string(std.PasswordHash) == "mdr" {
		t.Fatal("password stored in clear")
	}
	if err := std.CheckPassword("mdr"); err != nil {
		t.Errorf("CheckPassword() error = %v", err)
	}
	if err := std.CheckPassword("lol"); err == nil {
		t.Error("CheckPassword() accepted a wrong password")
	}
}

func TestStudent_HasUSN(t *testing.T) {
	tests := []struct {
		name string
		usn  string
		want bool
	}{
		{name: "unassigned", usn: UnassignedUSN},
		{name: "empty", usn: ""},
		{name: "assigned", usn: "1ab19cs001", want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			std := Student{USN: tt.usn}
			if got := std.HasUSN(); got != tt.want {
				t.Errorf("HasUSN() = %v, want %v", got, tt.want)
			}
		})
	}
}
