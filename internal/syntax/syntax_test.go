// Copyright 2025 ByteDance Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package syntax

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cloudwego/full0/internal/pipeline"
)

const validComponent = `import { db } from "@/db";

export default function PricingCard({ plans }: { plans: string[] }) {
  return (
    <div className="card">
      {plans.map((p) => <span key={p}>{p}</span>)}
    </div>
  );
}
`

const validSchema = `import { pgTable, serial, text } from "drizzle-orm/pg-core";

export const plans = pgTable("plans", {
  id: serial("id").primaryKey(),
  name: text("name").notNull(),
});
`

func TestCheck_Valid(t *testing.T) {
	ctx := context.Background()
	c := Checker{}
	assert.Empty(t, c.Check(ctx, pipeline.NewArtifact(pipeline.KindComponent, "components/pricing-card.tsx", validComponent)))
	assert.Empty(t, c.Check(ctx, pipeline.NewArtifact(pipeline.KindSchema, "db/schema.ts", validSchema)))
}

func TestCheck_Broken(t *testing.T) {
	broken := "export const plans = pgTable(\"plans\", {\n  id: serial(\"id\").primaryKey(,\n"
	w := Checker{}.Check(context.Background(), pipeline.NewArtifact(pipeline.KindSchema, "db/schema.ts", broken))
	assert.NotEmpty(t, w)
	assert.LessOrEqual(t, len(w), MaxWarnings)
}

func TestCheck_Ignored(t *testing.T) {
	c := Checker{}
	assert.Nil(t, c.Check(context.Background(), pipeline.NewArtifact(pipeline.KindSeed, "notes.md", "{{{")))
	assert.Nil(t, c.Check(context.Background(), pipeline.NewArtifact(pipeline.KindSeed, "db/seed.ts", "  ")))
}
