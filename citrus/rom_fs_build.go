/*
 * Copyright 2025 Adrià Giménez Pastor.
 *
 * This file is part of adriagipas/ctrvfs.
 *
 * adriagipas/ctrvfs is free software: you can redistribute it and/or
 * modify it under the terms of the GNU General Public License as
 * published by the Free Software Foundation, either version 3 of the
 * License, or (at your option) any later version.
 *
 * adriagipas/ctrvfs is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
 * General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with adriagipas/ctrvfs.  If not, see
 * <https://www.gnu.org/licenses/>.
 */
/*
 *  rom_fs_build.go - Reconstrucció d'un RomFS (IVFC) a partir d'un
 *                    arbre de fitxers. La serialització és canònica:
 *                    germans ordenats per unitats UTF-16, dades
 *                    alineades a 16 bytes, identificadors assignats
 *                    en pre-ordre.
 */

package citrus

import (
  "crypto/sha256"
  "fmt"
  "sort"
  "unicode/utf16"

  "github.com/adriagipas/ctrvfs/utils"
  "golang.org/x/text/encoding/unicode"
)


/*********/
/* TIPUS */
/*********/

// Grandària màxima de la regió de dades.
const _ROMFS_MAX_DATA_SIZE= int64(1)<<56

// Grandària de bloc dels nivells IVFC (2^12).
const _IVFC_BLOCK_SIZE= 0x1000

type RomFS_BuildFile struct {

  Name string
  Data []byte

}

type RomFS_BuildDir struct {

  Name string

  Dirs  []*RomFS_BuildDir
  Files []*RomFS_BuildFile

}

// Estat d'un directori durant la construcció.
type buildDirInfo struct {

  dir    *RomFS_BuildDir
  id     uint32 // Identificador en pre-ordre
  parent uint32 // Identificador del pare
  offset uint32 // Offset de l'entrada en la taula de metadades
  units  []uint16

  sibling uint32 // Offset del següent germà (ROMFS_NONE si no en té)
  child   uint32 // Offset del primer fill
  file    uint32 // Offset del primer fitxer
  hnext   uint32 // Següent en la cadena del hash

}

// Estat d'un fitxer durant la construcció.
type buildFileInfo struct {

  file   *RomFS_BuildFile
  parent uint32 // Identificador del directori pare
  offset uint32
  units  []uint16

  sibling     uint32
  data_offset int64
  hnext       uint32

}


/************/
/* FUNCIONS */
/************/

// Torna el nombre primer més gran que no supera limit. limit ha de
// ser >= 2.
func largestPrimeLE( limit int ) int {

  for n:= limit; n > 2; n-- {
    is_prime:= true
    for d:= 2; d*d <= n; d++ {
      if n%d == 0 { is_prime= false; break }
    }
    if is_prime { return n }
  }

  return 2

} // end largestPrimeLE


// Funció de hash de noms del RomFS. Comença amb l'identificador del
// pare i barreja les unitats UTF-16 del nom.
func romFSNameHash( parent uint32, units []uint16 ) uint32 {

  hash:= parent
  for _,c:= range units {
    hash= (hash>>5) ^ (hash<<27) ^ uint32(c)
  }

  return hash

} // end romFSNameHash


func utf16Units( name string ) []uint16 {
  return utf16.Encode ( []rune(name) )
} // end utf16Units


// Ordre lexicogràfic per unitats UTF-16, distingint majúscules.
func utf16Less( a []uint16, b []uint16 ) bool {

  n:= len(a)
  if len(b) < n { n= len(b) }
  for i:= 0; i < n; i++ {
    if a[i] != b[i] { return a[i] < b[i] }
  }

  return len(a) < len(b)

} // end utf16Less


// Codifica el nom en UTF-16LE amb padding a 4 bytes.
func encodeName( name string ) ([]byte,error) {

  enc:= unicode.UTF16(unicode.LittleEndian,unicode.IgnoreBOM).NewEncoder ()
  buf,err:= enc.Bytes ( []byte(name) )
  if err != nil { return nil,err }
  for len(buf)%4 != 0 {
    buf= append(buf,0)
  }

  return buf,nil

} // end encodeName


func writeU32( buf []byte, offset int, val uint32 ) {
  buf[offset]= uint8(val)
  buf[offset+1]= uint8(val>>8)
  buf[offset+2]= uint8(val>>16)
  buf[offset+3]= uint8(val>>24)
} // end writeU32


func writeU64( buf []byte, offset int, val uint64 ) {
  writeU32 ( buf, offset, uint32(val) )
  writeU32 ( buf, offset+4, uint32(val>>32) )
} // end writeU64


// Ordena els fills d'un directori i comprova que no hi ha noms
// repetits entre germans.
func sortChildren( dir *RomFS_BuildDir ) error {

  sort.SliceStable ( dir.Dirs, func(i,j int) bool {
    return utf16Less ( utf16Units ( dir.Dirs[i].Name ),
      utf16Units ( dir.Dirs[j].Name ) )
  })
  sort.SliceStable ( dir.Files, func(i,j int) bool {
    return utf16Less ( utf16Units ( dir.Files[i].Name ),
      utf16Units ( dir.Files[j].Name ) )
  })

  seen:= make(map[string]bool)
  for _,d:= range dir.Dirs {
    if seen[d.Name] {
      return fmt.Errorf ( "cannot build RomFS: duplicated entry '%s' in"+
        " directory '%s': %w", d.Name, dir.Name, utils.ErrInvalidTree )
    }
    seen[d.Name]= true
  }
  for _,f:= range dir.Files {
    if seen[f.Name] {
      return fmt.Errorf ( "cannot build RomFS: duplicated entry '%s' in"+
        " directory '%s': %w", f.Name, dir.Name, utils.ErrInvalidTree )
    }
    seen[f.Name]= true
  }

  return nil

} // end sortChildren


// Recorre l'arbre en pre-ordre omplint les llistes de directoris i
// fitxers i assignant identificadors i offsets de metadades.
func flattenTree( root *RomFS_BuildDir ) ([]*buildDirInfo,
  []*buildFileInfo,error) {

  var dirs []*buildDirInfo
  var files []*buildFileInfo
  var dir_meta_size uint32= 0
  var file_meta_size uint32= 0

  var visit func(dir *RomFS_BuildDir, parent uint32) (uint32,error)
  visit= func(dir *RomFS_BuildDir, parent uint32) (uint32,error) {

    if err:= sortChildren ( dir ); err != nil { return 0,err }

    // Entrada del directori.
    units:= utf16Units ( dir.Name )
    info:= &buildDirInfo{
      dir: dir,
      id: uint32(len(dirs)),
      parent: parent,
      offset: dir_meta_size,
      units: units,
      sibling: ROMFS_NONE,
      child: ROMFS_NONE,
      file: ROMFS_NONE,
      hnext: ROMFS_NONE,
    }
    dirs= append(dirs,info)
    dir_meta_size+= 0x18 + uint32(utils.AlignUp ( int64(len(units)*2), 4 ))

    // Fitxers.
    var prev_file *buildFileInfo
    for _,f:= range dir.Files {
      funits:= utf16Units ( f.Name )
      finfo:= &buildFileInfo{
        file: f,
        parent: info.id,
        offset: file_meta_size,
        units: funits,
        sibling: ROMFS_NONE,
        hnext: ROMFS_NONE,
      }
      files= append(files,finfo)
      file_meta_size+= 0x20 + uint32(utils.AlignUp ( int64(len(funits)*2),
        4 ))
      if prev_file == nil {
        info.file= finfo.offset
      } else {
        prev_file.sibling= finfo.offset
      }
      prev_file= finfo
    }

    // Subdirectoris.
    var prev_child *buildDirInfo
    for _,d:= range dir.Dirs {
      child_pos:= len(dirs)
      if _,err:= visit ( d, info.id ); err != nil { return 0,err }
      child:= dirs[child_pos]
      if prev_child == nil {
        info.child= child.offset
      } else {
        prev_child.sibling= child.offset
      }
      prev_child= child
    }

    return info.offset,nil

  }
  if _,err:= visit ( root, 0 ); err != nil { return nil,nil,err }

  return dirs,files,nil

} // end flattenTree


// Construeix una taula de hash i enllaça les cadenes de col·lisió.
// offsets i hashos van en paral·lel; el resultat és la taula de
// capçaleres de cadena.
func buildHashTable( count int, hash func(i int) uint32,
  offset func(i int) uint32, set_next func(i int, next uint32) ) []uint32 {

  limit:= count/2
  if limit < 3 { limit= 3 }
  nbuckets:= largestPrimeLE ( limit )
  table:= make([]uint32,nbuckets)
  for i:= range table {
    table[i]= ROMFS_NONE
  }
  for i:= 0; i < count; i++ {
    b:= hash ( i ) % uint32(nbuckets)
    set_next ( i, table[b] )
    table[b]= offset ( i )
  }

  return table

} // end buildHashTable


// Serialitza el nivell 3.
func buildLevel3( dirs []*buildDirInfo, files []*buildFileInfo ) (
  []byte,error) {

  // Offsets de dades dels fitxers.
  var data_size int64= 0
  for _,f:= range files {
    f.data_offset= data_size
    data_size= utils.AlignUp ( data_size + int64(len(f.file.Data)), 16 )
    if data_size > _ROMFS_MAX_DATA_SIZE {
      return nil,fmt.Errorf ( "cannot build RomFS: file data region is"+
        " too large: %w", utils.ErrSizeLimit )
    }
  }

  // Taules de hash.
  dir_hash:= buildHashTable ( len(dirs),
    func(i int) uint32 {
      return romFSNameHash ( dirs[i].parent, dirs[i].units )
    },
    func(i int) uint32 { return dirs[i].offset },
    func(i int, next uint32) { dirs[i].hnext= next } )
  file_hash:= buildHashTable ( len(files),
    func(i int) uint32 {
      return romFSNameHash ( files[i].parent, files[i].units )
    },
    func(i int) uint32 { return files[i].offset },
    func(i int, next uint32) { files[i].hnext= next } )

  // Grandàries de les taules de metadades.
  var dir_meta_size int64= 0
  for _,d:= range dirs {
    dir_meta_size+= 0x18 + utils.AlignUp ( int64(len(d.units)*2), 4 )
  }
  var file_meta_size int64= 0
  for _,f:= range files {
    file_meta_size+= 0x20 + utils.AlignUp ( int64(len(f.units)*2), 4 )
  }

  // Offsets de les regions. Totes queden alineades a 4; la de dades
  // s'alinea a 16.
  dir_hash_off:= int64(0x28)
  dir_meta_off:= dir_hash_off + int64(len(dir_hash)*4)
  file_hash_off:= dir_meta_off + dir_meta_size
  file_meta_off:= file_hash_off + int64(len(file_hash)*4)
  file_data_off:= utils.AlignUp ( file_meta_off + file_meta_size, 16 )

  ret:= make([]byte,file_data_off+data_size)

  // Capçalera.
  writeU32 ( ret, 0x0, 0x28 )
  writeU32 ( ret, 0x4, uint32(dir_hash_off) )
  writeU32 ( ret, 0x8, uint32(len(dir_hash)*4) )
  writeU32 ( ret, 0xc, uint32(dir_meta_off) )
  writeU32 ( ret, 0x10, uint32(dir_meta_size) )
  writeU32 ( ret, 0x14, uint32(file_hash_off) )
  writeU32 ( ret, 0x18, uint32(len(file_hash)*4) )
  writeU32 ( ret, 0x1c, uint32(file_meta_off) )
  writeU32 ( ret, 0x20, uint32(file_meta_size) )
  writeU32 ( ret, 0x24, uint32(file_data_off) )

  // Taules de hash.
  for i,v:= range dir_hash {
    writeU32 ( ret, int(dir_hash_off)+i*4, v )
  }
  for i,v:= range file_hash {
    writeU32 ( ret, int(file_hash_off)+i*4, v )
  }

  // Metadades dels directoris.
  for _,d:= range dirs {

    base:= int(dir_meta_off) + int(d.offset)

    // El pare i el germà s'expressen com a offsets d'entrada. El
    // root s'apunta a ell mateix.
    writeU32 ( ret, base, dirs[d.parent].offset )
    writeU32 ( ret, base+0x4, d.sibling )
    writeU32 ( ret, base+0x8, d.child )
    writeU32 ( ret, base+0xc, d.file )
    writeU32 ( ret, base+0x10, d.hnext )
    writeU32 ( ret, base+0x14, uint32(len(d.units)*2) )
    name,err:= encodeName ( d.dir.Name )
    if err != nil { return nil,err }
    copy ( ret[base+0x18:], name )

  }

  // Metadades dels fitxers.
  for _,f:= range files {

    base:= int(file_meta_off) + int(f.offset)
    writeU32 ( ret, base, dirs[f.parent].offset )
    writeU32 ( ret, base+0x4, f.sibling )
    writeU64 ( ret, base+0x8, uint64(f.data_offset) )
    writeU64 ( ret, base+0x10, uint64(len(f.file.Data)) )
    writeU32 ( ret, base+0x18, f.hnext )
    writeU32 ( ret, base+0x1c, uint32(len(f.units)*2) )
    name,err:= encodeName ( f.file.Name )
    if err != nil { return nil,err }
    copy ( ret[base+0x20:], name )

  }

  // Dades.
  for _,f:= range files {
    copy ( ret[file_data_off+f.data_offset:], f.file.Data )
  }

  return ret,nil

} // end buildLevel3


// Torna el hash SHA-256 de cada bloc, amb l'últim bloc farcit de
// zeros.
func hashBlocks( data []byte ) []byte {

  nblocks:= (len(data) + _IVFC_BLOCK_SIZE - 1) / _IVFC_BLOCK_SIZE
  if nblocks == 0 { nblocks= 1 }
  ret:= make([]byte,0,nblocks*0x20)
  var block [_IVFC_BLOCK_SIZE]byte
  for i:= 0; i < nblocks; i++ {
    for j:= range block { block[j]= 0 }
    begin:= i*_IVFC_BLOCK_SIZE
    end:= begin + _IVFC_BLOCK_SIZE
    if end > len(data) { end= len(data) }
    if begin < len(data) {
      copy ( block[:], data[begin:end] )
    }
    hash:= sha256.Sum256 ( block[:] )
    ret= append(ret,hash[:]...)
  }

  return ret

} // end hashBlocks


// Serialitza un RomFS complet: capçalera IVFC, hash mestre, nivell 3
// a _BASE_OFFSET i nivells 1 i 2 al final.
func BuildRomFS( root *RomFS_BuildDir ) ([]byte,error) {

  // Nivell 3.
  dirs,files,err:= flattenTree ( root )
  if err != nil { return nil,err }
  lvl3,err:= buildLevel3 ( dirs, files )
  if err != nil { return nil,err }

  // Arbre de hashos. El nivell 2 resumeix el 3, l'1 el 2 i el hash
  // mestre l'1.
  lvl2:= hashBlocks ( lvl3 )
  lvl1:= hashBlocks ( lvl2 )
  master:= hashBlocks ( lvl1 )

  lvl3_padded:= utils.AlignUp ( int64(len(lvl3)), _IVFC_BLOCK_SIZE )
  lvl1_padded:= utils.AlignUp ( int64(len(lvl1)), _IVFC_BLOCK_SIZE )
  lvl2_padded:= utils.AlignUp ( int64(len(lvl2)), _IVFC_BLOCK_SIZE )

  total:= int64(_BASE_OFFSET) + lvl3_padded + lvl1_padded + lvl2_padded
  ret:= make([]byte,total)

  // Capçalera IVFC.
  ret[0]= 'I'; ret[1]= 'V'; ret[2]= 'F'; ret[3]= 'C'
  writeU32 ( ret, 0x4, 0x10000 )
  writeU32 ( ret, 0x8, uint32(len(master)) )
  // --> Nivell 1
  writeU64 ( ret, 0xc, 0 )
  writeU64 ( ret, 0x14, uint64(len(lvl1)) )
  writeU32 ( ret, 0x1c, 0xc )
  // --> Nivell 2
  writeU64 ( ret, 0x24, uint64(lvl1_padded) )
  writeU64 ( ret, 0x2c, uint64(len(lvl2)) )
  writeU32 ( ret, 0x34, 0xc )
  // --> Nivell 3
  writeU64 ( ret, 0x3c, uint64(lvl1_padded+lvl2_padded) )
  writeU64 ( ret, 0x44, uint64(len(lvl3)) )
  writeU32 ( ret, 0x4c, 0xc )
  // --> Grandària de la capçalera.
  writeU32 ( ret, 0x54, 0x5c )

  // Hash mestre i nivells.
  copy ( ret[0x60:], master )
  copy ( ret[_BASE_OFFSET:], lvl3 )
  copy ( ret[_BASE_OFFSET+lvl3_padded:], lvl1 )
  copy ( ret[_BASE_OFFSET+lvl3_padded+lvl1_padded:], lvl2 )

  return ret,nil

} // end BuildRomFS
