package orchestrator

import (
	"context"
	"encoding/json"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/go-collection-boot/async"
	"github.com/idelcare/nursebot/agents"
	"github.com/idelcare/nursebot/completion"
	"github.com/idelcare/nursebot/model"
	"go.uber.org/zap"
)

const (
	triageTemperature    = 0.3 // classification favors determinism
	agentTemperature     = 0.5
	synthesisTemperature = 0.5

	jsonOnlySuffix = "\n\nRéponds uniquement avec un objet JSON valide, sans texte autour."
)

// Metadata is the per-agent result map accumulated over one turn. A nil
// slot means that agent was not invoked.
type Metadata struct {
	Business      *agents.BusinessResult      `json:"business,omitempty"`
	Medical       *agents.MedicalResult       `json:"medical,omitempty"`
	Admin         *agents.AdminResult         `json:"admin,omitempty"`
	Communication *agents.CommunicationResult `json:"communication,omitempty"`
	Err           string                      `json:"error,omitempty"`
}

// Response is what one user turn produces: a user-facing reply plus the
// structured intent the dispatcher acts on.
type Response struct {
	Reply          string
	Intent         Intent
	ActionRequired bool
	Metadata       Metadata
}

// Completer issues one JSON-constrained completion. The returned string is
// always valid JSON, possibly the failure envelope. *completion.Client is
// the production implementation.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string, temperature float64) string
}

// Orchestrator runs the triage -> fan-out -> synthesis pipeline for one
// user turn. It only reads the application context; mutations are the
// dispatcher's business.
type Orchestrator struct {
	completion Completer
	set        *agents.Set
}

func New(client Completer, set *agents.Set) *Orchestrator {
	return &Orchestrator{completion: client, set: set}
}

// Execute processes one user message against a fresh context snapshot.
// Stages run strictly in order; only the specialized agent calls within
// fan-out run concurrently with each other.
func (o *Orchestrator) Execute(ctx context.Context, message string, snap *model.Snapshot) *Response {
	// Stage 1: triage. The user message only, no store context.
	triageRaw := o.completion.Complete(ctx, o.set.Triage.SystemInstruction, message, triageTemperature)
	if env, failed := completion.Detect(triageRaw); failed {
		// Provider is down: short-circuit the whole turn, no agent calls.
		logger.Error("Triage call failed, short-circuiting turn", zap.String("message", env.Message))
		reply := env.FinalReply
		if reply == "" {
			reply = completion.FallbackReply
		}
		return &Response{Reply: reply, Intent: IntentChat, Metadata: Metadata{Err: env.Message}}
	}

	triage := agents.DecodeTriage(triageRaw)
	logger.Info("Triage complete",
		zap.Bool("business", triage.NeedsBusiness),
		zap.Bool("medical", triage.NeedsMedical),
		zap.Bool("admin", triage.NeedsAdmin),
		zap.String("reasoning", triage.Reasoning))

	// Stage 2: fan-out. The flagged agents are independent of one another,
	// so their calls run concurrently; all must settle before synthesis.
	var businessTask, medicalTask, adminTask <-chan async.Result[string]
	if triage.NeedsBusiness {
		businessTask = o.callAgent(ctx, o.set.Business, message, snap)
	}
	if triage.NeedsMedical {
		medicalTask = o.callAgent(ctx, o.set.Medical, message, snap)
	}
	if triage.NeedsAdmin {
		adminTask = o.callAgent(ctx, o.set.Admin, message, snap)
	}

	meta := Metadata{}
	if businessTask != nil {
		raw, _ := async.Await(businessTask)
		meta.Business = agents.DecodeBusiness(raw)
	}
	if medicalTask != nil {
		raw, _ := async.Await(medicalTask)
		meta.Medical = agents.DecodeMedical(raw)
	}
	if adminTask != nil {
		raw, _ := async.Await(adminTask)
		meta.Admin = agents.DecodeAdmin(raw)
	}

	// Stage 3: synthesis always runs, so tone and formatting live in one
	// place whatever the triage decided.
	comm := o.synthesize(ctx, message, &meta, snap)
	meta.Communication = comm

	reply := comm.FinalReply
	if reply == "" {
		reply = completion.FallbackReply
	}

	// Stage 4: assembly. Medical alone never sets actionRequired: medical
	// data writes always go through an explicit structured intent.
	return &Response{
		Reply:          reply,
		Intent:         resolveIntent(&meta),
		ActionRequired: triage.NeedsAdmin || triage.NeedsBusiness,
		Metadata:       meta,
	}
}

// callAgent issues one specialized agent call as an async task. The result
// is always a JSON string; decode failures are handled per slot by the
// caller so one broken agent cannot abort the turn.
func (o *Orchestrator) callAgent(ctx context.Context, desc agents.Descriptor, message string, snap *model.Snapshot) <-chan async.Result[string] {
	return async.Go(func() (string, error) {
		systemPrompt := desc.SystemInstruction + jsonOnlySuffix
		userPrompt := "Contexte :\n" + desc.Project(snap) + "\n\nMessage :\n" + message
		return o.completion.Complete(ctx, systemPrompt, userPrompt, agentTemperature), nil
	})
}

func (o *Orchestrator) synthesize(ctx context.Context, message string, meta *Metadata, snap *model.Snapshot) *agents.CommunicationResult {
	desc := o.set.Communication

	results, err := json.Marshal(meta)
	if err != nil {
		results = []byte("{}")
	}

	systemPrompt := desc.SystemInstruction + jsonOnlySuffix
	userPrompt := "Contexte :\n" + desc.Project(snap) +
		"\n\nMessage :\n" + message +
		"\n\nRésultats des agents spécialisés :\n" + string(results)

	raw := o.completion.Complete(ctx, systemPrompt, userPrompt, synthesisTemperature)
	return agents.DecodeCommunication(raw)
}
