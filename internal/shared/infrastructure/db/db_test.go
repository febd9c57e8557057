package db

import (
	"Sanguo/internal/shared/serverconfig"
	"testing"
)

func TestDSN_默认字符集(t *testing.T) {
	got := DSN(serverconfig.MySQLConfig{User: "u", Password: "p", Host: "h", Port: 3306, DBName: "sanguo"})
	want := "u:p@tcp(h:3306)/sanguo?charset=utf8mb4&parseTime=True&loc=Local"
	if got != want {
		t.Fatalf("got=%s want=%s", got, want)
	}
}
