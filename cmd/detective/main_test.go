package main

import (
	"bytes"
	"context"
	"encoding/json"
	"github.com/myrjola/detectivequest/internal/casefile"
	"github.com/myrjola/detectivequest/internal/logging"
	"github.com/myrjola/detectivequest/internal/repositories"
	"github.com/stretchr/testify/require"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type result struct {
	stdout string
	stderr string
	err    error
}

func execute(t *testing.T, env map[string]string, stdin string, args ...string) result {
	t.Helper()
	lookupEnv := func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(lookupEnv)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func TestPlay(t *testing.T) {
	tests := []struct {
		name  string
		stdin string
		want  []string
	}{
		{
			name:  "two clues convict",
			stdin: "e\nd\nd\ns\nSr. Green\n",
			want: []string{
				"Jardim",
				"- Colar quebrado com fios de seda\n- Pegadas molhadas próximas à janela\n" +
					"- Pegadas que seguem para o portão\n- Resíduo químico em um copo\n",
				"Pistas que apontam para ele: 2",
				"VEREDITO: Culpado.",
			},
		},
		{
			name:  "one clue acquits",
			stdin: "d\nd\ns\nProfessor Plum\n",
			want:  []string{"Sótão", "Pistas que apontam para ele: 1", "VEREDITO: Inocente por falta de provas."},
		},
		{
			name:  "dead end and invalid command",
			stdin: "e\ne\ne\nx\ns\nProfessor Plum\n",
			want:  []string{"Caminho inexistente.", "Comando inválido.", "VEREDITO: Inocente por falta de provas."},
		},
		{
			name:  "empty accusation",
			stdin: "s\n\n",
			want:  []string{"- Pegadas molhadas próximas à janela\n", "Nome inválido."},
		},
		{
			name:  "input ends before accusation",
			stdin: "e",
			want:  []string{"Sala de Estar", "Nome inválido.", "Obrigado por jogar Detective Quest!"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := execute(t, nil, tt.stdin, "play")
			require.NoError(t, res.err)
			require.Contains(t, res.stdout, "Detective Quest: INÍCIO DA EXPLORAÇÃO")
			for _, want := range tt.want {
				require.Contains(t, res.stdout, want)
			}
		})
	}
}

func TestPlay_logging(t *testing.T) {
	res := execute(t, map[string]string{"DETECTIVE_LOG_LEVEL": "info"}, "s\nSr. Green\n", "play")
	require.NoError(t, res.err)
	require.Contains(t, res.stderr, "session=")
	require.Contains(t, res.stderr, "case_id=mansao")
	require.Contains(t, res.stderr, "outcome=innocent")
	require.NotContains(t, res.stdout, "session=")

	res = execute(t, nil, "s\n", "play")
	require.NoError(t, res.err)
	require.Empty(t, res.stderr, "default level is warn")

	res = execute(t, map[string]string{"DETECTIVE_LOG_LEVEL": "info"}, "s\n", "play", "--log-level", "error")
	require.NoError(t, res.err)
	require.Empty(t, res.stderr, "flag overrides environment")

	res = execute(t, map[string]string{"DETECTIVE_LOG_LEVEL": "loud"}, "s\n", "play")
	require.ErrorIs(t, res.err, logging.ErrInvalidLevel)
}

func TestPlay_narrate(t *testing.T) {
	t.Run("needs API key", func(t *testing.T) {
		res := execute(t, nil, "s\n", "play", "--narrate")
		require.ErrorIs(t, res.err, ErrMissingAPIKey)
	})

	t.Run("narrates rooms", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"id":     "chatcmpl-1",
				"object": "chat.completion",
				"choices": []map[string]any{{
					"index":         0,
					"message":       map[string]string{"role": "assistant", "content": "O relógio parou à meia-noite."},
					"finish_reason": "stop",
				}},
			})
		}))
		t.Cleanup(server.Close)

		env := map[string]string{
			"DETECTIVE_NARRATE": "true",
			"OPENAI_API_KEY":    "test-key",
			"OPENAI_BASE_URL":   server.URL + "/v1",
		}
		res := execute(t, env, "s\n", "play")
		require.NoError(t, res.err)
		require.Contains(t, res.stdout, "O relógio parou à meia-noite.")

		res = execute(t, env, "s\n", "play", "--narrate=false")
		require.NoError(t, res.err)
		require.NotContains(t, res.stdout, "O relógio parou à meia-noite.")
	})
}

func TestMapAndSuspects(t *testing.T) {
	res := execute(t, nil, "", "map")
	require.NoError(t, res.err)
	require.True(t, strings.HasPrefix(res.stdout, "Hall de Entrada"))
	require.Contains(t, res.stdout, "\n    Biblioteca (Página arrancada com anotações sobre dinheiro)\n")

	res = execute(t, nil, "", "suspects")
	require.NoError(t, res.err)
	require.Equal(t, "- Dr. Orchid\n- Mr. Boddy\n- Professor Plum\n- Sr. Green\n- Sra. Peacock\n", res.stdout)
}

func writeCaseFile(t *testing.T, id string) string {
	t.Helper()
	c, err := casefile.Default()
	require.NoError(t, err)
	c.ID = id
	c.Title = "Cópia"

	var buf bytes.Buffer
	require.NoError(t, casefile.Write(&buf, c))
	path := filepath.Join(t.TempDir(), id+".yaml")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
	return path
}

func TestCatalog(t *testing.T) {
	env := map[string]string{"DETECTIVE_SQLITE_URL": filepath.Join(t.TempDir(), "catalog.sqlite")}

	res := execute(t, env, "", "catalog", "list")
	require.NoError(t, res.err)
	require.Contains(t, res.stdout, "Nenhum caso no catálogo.")

	path := writeCaseFile(t, "copia")
	res = execute(t, env, "", "catalog", "import", path)
	require.NoError(t, res.err)
	require.Contains(t, res.stdout, `Caso "copia" importado.`)

	res = execute(t, env, "", "catalog", "list")
	require.NoError(t, res.err)
	require.Contains(t, res.stdout, "copia  Cópia (9 salas)")

	res = execute(t, env, "", "catalog", "export", "copia")
	require.NoError(t, res.err)
	require.Contains(t, res.stdout, "id: copia\n")
	exported, err := casefile.Parse([]byte(res.stdout))
	require.NoError(t, err)
	require.Len(t, exported.Rooms, 9)

	res = execute(t, env, "e\nd\nd\ns\nSr. Green\n", "play", "--case", "copia")
	require.NoError(t, res.err)
	require.Contains(t, res.stdout, "Cópia: INÍCIO DA EXPLORAÇÃO")
	require.Contains(t, res.stdout, "VEREDITO: Culpado.")

	res = execute(t, env, "", "play", "--case", "desconhecido")
	require.ErrorIs(t, res.err, repositories.ErrCaseNotFound)

	res = execute(t, env, "", "map", "--case", "copia", "--case-file", path)
	require.Error(t, res.err, "flags are mutually exclusive")
}

func TestPlay_caseFile(t *testing.T) {
	path := writeCaseFile(t, "arquivo")
	res := execute(t, nil, "s\n", "play", "--case-file", path)
	require.NoError(t, res.err)
	require.Contains(t, res.stdout, "Cópia: INÍCIO DA EXPLORAÇÃO")

	res = execute(t, nil, "", "play", "--case-file", filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, res.err, os.ErrNotExist)
}
