package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/kurtosis-tech/stacktrace"
)

// GetEnvFilepath returns the path to the credentials .env file.
func GetEnvFilepath(skillkitDirpath string) string {
	return filepath.Join(skillkitDirpath, EnvFilename)
}

// LoadEnvFile loads credentials from the .env file into the process
// environment. Variables already present in the environment win over .env
// values. A missing file is not an error.
func LoadEnvFile(skillkitDirpath string) error {
	envFilepath := GetEnvFilepath(skillkitDirpath)
	if _, err := os.Stat(envFilepath); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(envFilepath); err != nil {
		return stacktrace.Propagate(err, "failed to load env file '%s'", envFilepath)
	}
	return nil
}

// ReadEnvFile returns the key/value pairs stored in the .env file, or an
// empty map when the file doesn't exist.
func ReadEnvFile(skillkitDirpath string) (map[string]string, error) {
	envFilepath := GetEnvFilepath(skillkitDirpath)
	if _, err := os.Stat(envFilepath); os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	values, err := godotenv.Read(envFilepath)
	if err != nil {
		return nil, stacktrace.Propagate(err, "failed to read env file '%s'", envFilepath)
	}
	return values, nil
}

// WriteEnvFile merges the given values into the .env file, creating it with
// 0600 permissions. Existing keys not present in values are preserved.
func WriteEnvFile(skillkitDirpath string, values map[string]string) error {
	existing, err := ReadEnvFile(skillkitDirpath)
	if err != nil {
		return err
	}
	for key, value := range values {
		existing[key] = value
	}

	content, err := godotenv.Marshal(existing)
	if err != nil {
		return stacktrace.Propagate(err, "failed to marshal env file contents")
	}

	envFilepath := GetEnvFilepath(skillkitDirpath)
	if err := os.WriteFile(envFilepath, []byte(content+"\n"), 0600); err != nil {
		return stacktrace.Propagate(err, "failed to write env file '%s'", envFilepath)
	}

	return nil
}
