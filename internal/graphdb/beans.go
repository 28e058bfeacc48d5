package graphdb

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/beandoc/internal/mgmt"
)

// Domain is the management domain all database beans are registered in.
const Domain = "org.neo4j"

// KernelVersion is reported by the Kernel bean.
const KernelVersion = "beandoc-graphdb 1.0"

const (
	instanceKey      = "kernel#0"
	compositeData    = "javax.management.openmbean.CompositeData[]"
	lockInfoList     = "java.util.List<org.neo4j.kernel.info.LockInfo>"
	clusterMemberArr = "[Lorg.neo4j.management.ClusterMemberInfo;"
	branchedStoreArr = "[Lorg.neo4j.management.BranchedStoreInfo;"
)

func newStoreID() string { return uuid.NewString() }

// BeanName returns the object name a database bean called name is
// registered under. name0 is optional.
func BeanName(name, name0 string) (mgmt.ObjectName, error) {
	s := fmt.Sprintf("%s:instance=%s,name=%s", Domain, instanceKey, name)
	if name0 != "" {
		s += ",name0=" + name0
	}
	return mgmt.ParseObjectName(s)
}

type beanSpec struct {
	name    string
	name0   string
	info    mgmt.BeanInfo
	getters map[string]mgmt.AttributeGetter
}

func (d *Database) registerBeans() error {
	specs := []beanSpec{
		d.kernelBean(),
		d.primitivesBean(),
		d.storeFileBean(),
		d.pageCacheBean(),
		d.transactionsBean(),
		d.lockingBean(),
		d.configurationBean(),
		d.diagnosticsBean(),
		d.indexSamplerBean(),
		d.connectorBean(),
	}
	if d.settings.JMXPort != 0 {
		specs = append(specs, d.jmxServerBean())
	}
	if d.settings.Clustered {
		specs = append(specs, d.highAvailabilityBean(), d.branchedStoreBean())
	}

	for _, spec := range specs {
		name, err := BeanName(spec.name, spec.name0)
		if err != nil {
			return fmt.Errorf("bean name %q: %w", spec.name, err)
		}
		if _, err := d.registry.Register(name, mgmt.NewStandardBean(spec.info, spec.getters)); err != nil {
			return fmt.Errorf("register bean %q: %w", spec.name, err)
		}
		d.mu.Lock()
		d.names = append(d.names, name)
		d.mu.Unlock()
	}
	return nil
}

func ro(name, typ, desc string) mgmt.AttributeInfo {
	return mgmt.AttributeInfo{Name: name, Type: typ, Description: desc, Readable: true}
}

func composite(name, originalType, desc string) mgmt.AttributeInfo {
	a := ro(name, compositeData, desc)
	a.Descriptor = mgmt.Descriptor{mgmt.FieldOriginalType: originalType}
	return a
}

func constant(v any) mgmt.AttributeGetter {
	return func() (any, error) { return v, nil }
}

func (d *Database) countGetter(table string) mgmt.AttributeGetter {
	return func() (any, error) { return d.store.count(context.Background(), table) }
}

func (d *Database) kernelBean() beanSpec {
	return beanSpec{
		name: "Kernel",
		info: mgmt.BeanInfo{
			ClassName:   "org.neo4j.management.Kernel",
			Description: "Information about the Neo4j kernel",
			Attributes: []mgmt.AttributeInfo{
				ro("KernelVersion", "java.lang.String", "The version of Neo4j"),
				ro("StoreId", "java.lang.String", "An identifier that, together with store creation time, uniquely identifies this Neo4j\nstore"),
				ro("StoreCreationDate", "java.util.Date", "The time when this Neo4j graph store was created"),
				ro("StoreLogVersion", "long", "The current version of the Neo4j store logical log"),
				ro("KernelStartTime", "java.util.Date", "The time from which this Neo4j instance was in operational mode"),
				ro("ReadOnly", "boolean", "Whether this is a read only instance"),
				ro("MBeanQuery", "javax.management.ObjectName", "An ObjectName that can be used as a query for getting all management beans for this Neo4j instance"),
				ro("DatabaseName", "java.lang.String", "The name of the mounted database"),
			},
		},
		getters: map[string]mgmt.AttributeGetter{
			"KernelVersion":     constant(KernelVersion),
			"StoreId":           func() (any, error) { return d.storeID, nil },
			"StoreCreationDate": func() (any, error) { return d.created, nil },
			"StoreLogVersion":   func() (any, error) { return d.store.lastTxID.Load(), nil },
			"KernelStartTime":   func() (any, error) { return d.startTime, nil },
			"ReadOnly":          func() (any, error) { return d.settings.ReadOnly, nil },
			"MBeanQuery":        constant(fmt.Sprintf("%s:instance=%s,*", Domain, instanceKey)),
			"DatabaseName":      constant(storeFileName),
		},
	}
}

func (d *Database) primitivesBean() beanSpec {
	return beanSpec{
		name: "Primitive count",
		info: mgmt.BeanInfo{
			ClassName:   "org.neo4j.management.Primitives",
			Description: "Estimates of the numbers of different kinds of Neo4j primitives",
			Attributes: []mgmt.AttributeInfo{
				ro("NumberOfNodeIdsInUse", "long", "An estimation of the number of nodes used in this Neo4j instance"),
				ro("NumberOfRelationshipIdsInUse", "long", "An estimation of the number of relationships used in this Neo4j instance"),
				ro("NumberOfPropertyIdsInUse", "long", "An estimation of the number of properties used in this Neo4j instance"),
				ro("NumberOfRelationshipTypeIdsInUse", "long", "The number of relationship types used in this Neo4j instance"),
			},
		},
		getters: map[string]mgmt.AttributeGetter{
			"NumberOfNodeIdsInUse":             d.countGetter("nodes"),
			"NumberOfRelationshipIdsInUse":     d.countGetter("relationships"),
			"NumberOfPropertyIdsInUse":         d.countGetter("properties"),
			"NumberOfRelationshipTypeIdsInUse": d.countGetter("relationship_types"),
		},
	}
}

func (d *Database) storeFileBean() beanSpec {
	records := func(table string, size int64) mgmt.AttributeGetter {
		return func() (any, error) { return d.store.recordSize(context.Background(), table, size) }
	}
	return beanSpec{
		name: "Store file sizes",
		info: mgmt.BeanInfo{
			ClassName:   "org.neo4j.management.StoreFile",
			Description: "Information about the sizes of the different parts of the Neo4j graph store",
			Attributes: []mgmt.AttributeInfo{
				ro("TotalStoreSize", "long", "Disk space used by whole store, in bytes."),
				ro("LogicalLogSize", "long", "Disk space used by the current Neo4j logical log, in bytes."),
				ro("NodeStoreSize", "long", "Disk space used to store nodes, in bytes."),
				ro("RelationshipStoreSize", "long", "Disk space used to store relationships, in bytes."),
				ro("PropertyStoreSize", "long", "Disk space used to store properties (excluding string values and array values), in bytes."),
			},
		},
		getters: map[string]mgmt.AttributeGetter{
			"TotalStoreSize":        func() (any, error) { return d.store.totalSize(context.Background()) },
			"LogicalLogSize":        func() (any, error) { return d.store.walSize(), nil },
			"NodeStoreSize":         records("nodes", nodeRecordSize),
			"RelationshipStoreSize": records("relationships", relationshipRecordSize),
			"PropertyStoreSize":     records("properties", propertyRecordSize),
		},
	}
}

func (d *Database) pageCacheBean() beanSpec {
	return beanSpec{
		name: "Page cache",
		info: mgmt.BeanInfo{
			ClassName:   "org.neo4j.management.PageCache",
			Description: "Information about the Neo4j page cache. All numbers are counts and sums since the Neo4j\ninstance was started",
			Attributes: []mgmt.AttributeInfo{
				ro("Faults", "long", "Number of page faults. How often requested data was not found in memory and had to be loaded."),
				ro("Evictions", "long", "Number of page evictions. How many pages have been removed from memory to make room for other pages."),
				ro("Flushes", "long", "Number of page flushes. How many dirty pages have been written to durable storage."),
				ro("BytesRead", "long", "Number of bytes read from durable storage."),
				ro("BytesWritten", "long", "Number of bytes written to durable storage."),
				ro("HitRatio", "double", "Ratio of hits to the total number of lookups in the page cache"),
				ro("MaxSize", "long", "Configured size of the page cache, in bytes."),
			},
		},
		getters: map[string]mgmt.AttributeGetter{
			"Faults":       constant(int64(0)),
			"Evictions":    constant(int64(0)),
			"Flushes":      constant(int64(0)),
			"BytesRead":    constant(int64(0)),
			"BytesWritten": constant(int64(0)),
			"HitRatio":     constant(float64(1)),
			"MaxSize":      func() (any, error) { return d.settings.PageCacheBytes, nil },
		},
	}
}

func (d *Database) transactionsBean() beanSpec {
	return beanSpec{
		name: "Transactions",
		info: mgmt.BeanInfo{
			ClassName:   "org.neo4j.management.TransactionManager",
			Description: "Information about the Neo4j transaction manager",
			Attributes: []mgmt.AttributeInfo{
				ro("NumberOfOpenTransactions", "long", "The number of currently open transactions"),
				ro("PeakNumberOfConcurrentTransactions", "long", "The highest number of transactions ever opened concurrently"),
				ro("NumberOfOpenedTransactions", "long", "The total number started transactions"),
				ro("NumberOfCommittedTransactions", "long", "The total number of committed transactions"),
				ro("NumberOfRolledBackTransactions", "long", "The total number of rolled back transactions"),
				ro("LastCommittedTxId", "long", "The id of the latest committed transaction"),
			},
		},
		getters: map[string]mgmt.AttributeGetter{
			"NumberOfOpenTransactions":           func() (any, error) { return d.store.open.Load(), nil },
			"PeakNumberOfConcurrentTransactions": func() (any, error) { return d.store.peak.Load(), nil },
			"NumberOfOpenedTransactions":         func() (any, error) { return d.store.opened.Load(), nil },
			"NumberOfCommittedTransactions":      func() (any, error) { return d.store.committed.Load(), nil },
			"NumberOfRolledBackTransactions":     func() (any, error) { return d.store.rolledBack.Load(), nil },
			"LastCommittedTxId":                  func() (any, error) { return d.store.lastTxID.Load(), nil },
		},
	}
}

func (d *Database) lockingBean() beanSpec {
	return beanSpec{
		name: "Locking",
		info: mgmt.BeanInfo{
			ClassName:   "org.neo4j.management.LockManager",
			Description: "Information about the Neo4j lock status",
			Attributes: []mgmt.AttributeInfo{
				ro("NumberOfAvertedDeadlocks", "long", "The number of lock sequences that would have lead to a deadlock situation that Neo4j has detected and averted (by throwing DeadlockDetectedException)."),
				composite("Locks", lockInfoList, "Information about all locks held by Neo4j"),
			},
			Operations: []mgmt.OperationInfo{
				{
					Name:        "getContendedLocks",
					ReturnType:  compositeData,
					Description: "getContendedLocks",
					Signature:   []mgmt.ParameterInfo{{Name: "minWaitTime", Type: "long"}},
					Impact:      mgmt.ImpactInfo,
					Descriptor:  mgmt.Descriptor{mgmt.FieldOriginalType: lockInfoList},
				},
			},
		},
		getters: map[string]mgmt.AttributeGetter{
			"NumberOfAvertedDeadlocks": constant(int64(0)),
			"Locks":                    constant([]map[string]any{}),
		},
	}
}

func (d *Database) configurationBean() beanSpec {
	keys := make([]string, 0, len(d.settings.raw))
	for k := range d.settings.raw {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	info := mgmt.BeanInfo{
		ClassName:   "org.neo4j.jmx.impl.ConfigurationBean",
		Description: "The configuration parameters used to configure Neo4j",
	}
	getters := make(map[string]mgmt.AttributeGetter, len(keys))
	for _, k := range keys {
		desc := settingDescriptions[k]
		if desc == "" {
			desc = k
		}
		info.Attributes = append(info.Attributes, ro(k, "java.lang.String", desc))
		getters[k] = constant(d.settings.raw[k])
	}
	return beanSpec{name: "Configuration", info: info, getters: getters}
}

func (d *Database) diagnosticsBean() beanSpec {
	providers := []string{"KernelDiagnostics", "StoreFiles", "ConfigurationDiagnostics", "TransactionDiagnostics"}
	return beanSpec{
		name: "Diagnostics",
		info: mgmt.BeanInfo{
			ClassName:   "org.neo4j.management.Diagnostics",
			Description: "Diagnostics provided by Neo4j",
			Attributes: []mgmt.AttributeInfo{
				ro("DiagnosticsProviders", "java.util.List", "A list of the ids for the registered diagnostics providers."),
			},
			Operations: []mgmt.OperationInfo{
				{Name: "dumpAll", ReturnType: "java.lang.String", Description: "Dump diagnostics information to JMX", Impact: mgmt.ImpactInfo},
				{Name: "dumpToLog", ReturnType: "void", Description: "Dump diagnostics information to the log.", Impact: mgmt.ImpactAction},
				{
					Name:        "dumpToLog",
					ReturnType:  "void",
					Description: "Dump diagnostics information to the log.",
					Signature:   []mgmt.ParameterInfo{{Name: "providerId", Type: "java.lang.String"}},
					Impact:      mgmt.ImpactAction,
				},
				{
					Name:        "extract",
					ReturnType:  "java.lang.String",
					Description: "Operation exposed for management",
					Signature:   []mgmt.ParameterInfo{{Name: "providerId", Type: "java.lang.String"}},
					Impact:      mgmt.ImpactInfo,
				},
			},
		},
		getters: map[string]mgmt.AttributeGetter{
			"DiagnosticsProviders": constant(providers),
		},
	}
}

func (d *Database) indexSamplerBean() beanSpec {
	return beanSpec{
		name: "Index sampler",
		info: mgmt.BeanInfo{
			ClassName:   "org.neo4j.management.IndexSamplingManager",
			Description: "Handle index sampling.",
			Operations: []mgmt.OperationInfo{
				{
					Name:        "triggerIndexSampling",
					ReturnType:  "void",
					Description: "triggerIndexSampling",
					Signature: []mgmt.ParameterInfo{
						{Name: "labelKey", Type: "java.lang.String"},
						{Name: "propertyKey", Type: "java.lang.String"},
						{Name: "forceSample", Type: "boolean"},
					},
					Impact: mgmt.ImpactAction,
				},
			},
		},
	}
}

// connectorBean describes the bolt connector. It is registered under a
// secondary name so each connector gets its own entry.
func (d *Database) connectorBean() beanSpec {
	boltType, _ := d.settings.Raw(SettingBoltType)
	if boltType == "" {
		boltType = "BOLT"
	}
	return beanSpec{
		name:  "Connector",
		name0: strings.ToLower(boltType),
		info: mgmt.BeanInfo{
			ClassName:   "org.neo4j.management.Connector",
			Description: "Information about a network connector",
			Attributes: []mgmt.AttributeInfo{
				ro("Type", "java.lang.String", "Connector type"),
				ro("Enabled", "boolean", "Whether the connector accepts connections"),
			},
		},
		getters: map[string]mgmt.AttributeGetter{
			"Type":    constant(boltType),
			"Enabled": func() (any, error) { return d.settings.BoltEnabled, nil },
		},
	}
}

func (d *Database) jmxServerBean() beanSpec {
	return beanSpec{
		name: "JMX Server",
		info: mgmt.BeanInfo{
			ClassName:   "org.neo4j.jmx.impl.JmxServer",
			Description: "Remote management server",
			Attributes: []mgmt.AttributeInfo{
				ro("Port", "int", "Port the server listens on"),
			},
		},
		getters: map[string]mgmt.AttributeGetter{
			"Port": func() (any, error) { return d.settings.JMXPort, nil },
		},
	}
}

func (d *Database) highAvailabilityBean() beanSpec {
	instanceID := strconv.Itoa(d.settings.ServerID)
	return beanSpec{
		name: "High Availability",
		info: mgmt.BeanInfo{
			ClassName:   "org.neo4j.management.HighAvailability",
			Description: "Information about an instance participating in a HA cluster",
			Attributes: []mgmt.AttributeInfo{
				ro("InstanceId", "java.lang.String", "The identifier used to identify this server in the HA cluster"),
				ro("Role", "java.lang.String", "The role this instance has in the cluster"),
				ro("Available", "boolean", "Whether this instance is available or not"),
				ro("Alive", "boolean", "Whether this instance is alive or not"),
				ro("LastUpdateTime", "java.lang.String", "The time when the data on this instance was last updated from the master"),
				ro("LastCommittedTxId", "long", "The latest transaction id present in this instance's store"),
				composite("InstancesInCluster", clusterMemberArr, "Information about all instances in this cluster"),
			},
			Operations: []mgmt.OperationInfo{
				{Name: "update", ReturnType: "java.lang.String", Description: "(If this is a slave) Update the database on this instance with the latest transactions from the master", Impact: mgmt.ImpactAction},
			},
		},
		getters: map[string]mgmt.AttributeGetter{
			"InstanceId":        constant(instanceID),
			"Role":              constant("master"),
			"Available":         constant(true),
			"Alive":             constant(true),
			"LastUpdateTime":    func() (any, error) { return time.Now().UTC().Format(time.RFC3339), nil },
			"LastCommittedTxId": func() (any, error) { return d.store.lastTxID.Load(), nil },
			"InstancesInCluster": func() (any, error) {
				members := []map[string]any{{"instanceId": instanceID, "roles": []string{"master"}}}
				for _, h := range d.settings.InitialHosts {
					members = append(members, map[string]any{"address": h})
				}
				return members, nil
			},
		},
	}
}

func (d *Database) branchedStoreBean() beanSpec {
	return beanSpec{
		name: "Branched Store",
		info: mgmt.BeanInfo{
			ClassName:   "org.neo4j.management.BranchedStore",
			Description: "Information about the branched stores present in this HA cluster member",
			Attributes: []mgmt.AttributeInfo{
				composite("BranchedStores", branchedStoreArr, "A list of the branched stores"),
			},
		},
		getters: map[string]mgmt.AttributeGetter{
			"BranchedStores": constant([]map[string]any{}),
		},
	}
}
